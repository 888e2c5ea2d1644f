// README: Gemini-backed advisor; writes the driver-facing repositioning message.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiAdvisor turns a repositioning recommendation into a short, friendly
// message for the driver's device. Purely cosmetic: matching and rebalancing
// never depend on it, and callers treat any failure as "no message".
type GeminiAdvisor struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiAdvisor initializes a new Gemini client. apiKey comes from the
// environment via config.
func NewGeminiAdvisor(ctx context.Context, apiKey string) (*GeminiAdvisor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Flash keeps latency and cost low; the output is one sentence.
	model := client.GenerativeModel("gemini-2.0-flash")
	model.SetTemperature(0.6)
	model.SetMaxOutputTokens(80)

	return &GeminiAdvisor{client: client, model: model}, nil
}

// Close cleans up the Gemini client resources.
func (a *GeminiAdvisor) Close() {
	a.client.Close()
}

// RepositionMessage produces a one-sentence suggestion naming the target zone
// and the expected drive time.
func (a *GeminiAdvisor) RepositionMessage(ctx context.Context, zoneName string, travelMinutes float64) (string, error) {
	prompt := fmt.Sprintf(
		`You write one-sentence notifications for ride-hail drivers.
Suggest repositioning to the %q area, about %.0f minutes away, because demand is higher there.
Friendly and direct, no emoji, one sentence only.`,
		zoneName, travelMinutes,
	)

	resp, err := a.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(out.String()), nil
}
