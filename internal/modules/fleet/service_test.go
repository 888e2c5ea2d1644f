// README: Fleet service tests; triggers, bounded execution, skip-if-running.
package fleet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"gocars/internal/config"
	"gocars/internal/modules/matching"
	"gocars/internal/types"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubZones struct {
	zones []Zone
	err   error
}

func (s *stubZones) GetZones(ctx context.Context) ([]Zone, error) { return s.zones, s.err }

type stubDemand struct {
	demand []ZoneDemand
	err    error
}

func (s *stubDemand) GetZoneDemand(ctx context.Context) ([]ZoneDemand, error) {
	return s.demand, s.err
}

type stubLister struct {
	candidates []matching.DriverCandidate
	err        error
	entered    chan struct{}
	release    chan struct{}
}

func (s *stubLister) ListAvailable(ctx context.Context) ([]matching.DriverCandidate, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
		<-s.release
	}
	return s.candidates, s.err
}

type mockNotifier struct {
	mu       sync.Mutex
	notified []types.ID
	err      error
}

func (m *mockNotifier) NotifyDriver(ctx context.Context, driverID types.ID, rec Recommendation, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.notified = append(m.notified, driverID)
	return nil
}

type mockDispatchLog struct {
	mu       sync.Mutex
	recorded []Recommendation
	err      error
}

func (m *mockDispatchLog) RecordDispatch(ctx context.Context, rec Recommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.recorded = append(m.recorded, rec)
	return nil
}

func testFleetConfig() config.FleetConfig {
	return config.FleetConfig{
		Interval:         time.Minute,
		ScoreThreshold:   70,
		UnmetDemandRatio: 0.10,
		MaxExecutions:    5,
	}
}

func newTestFleetService(lister CandidateLister, notifier Notifier, dispatches DispatchLog) *Service {
	return NewService(
		&stubZones{zones: twoZones()},
		&stubDemand{demand: equalDemand()},
		lister,
		notifier,
		dispatches,
		testFleetConfig(),
		zerolog.Nop(),
	)
}

// ---------------------------------------------------------------------------
// Triggers and execution
// ---------------------------------------------------------------------------

func TestRunFleetOptimization_BalancedFleetDoesNotTrigger(t *testing.T) {
	candidates := append(driversAt(centroidA, "a", 2), driversAt(centroidB, "b", 2)...)
	notifier := &mockNotifier{}
	svc := newTestFleetService(&stubLister{candidates: candidates}, notifier, &mockDispatchLog{})

	result, err := svc.RunFleetOptimization(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Triggered {
		t.Fatal("balanced fleet should not trigger rebalancing")
	}
	if result.Executed != 0 || len(notifier.notified) != 0 {
		t.Fatalf("expected no executions, got %d executed, %d notified", result.Executed, len(notifier.notified))
	}
}

func TestRunFleetOptimization_ExecutesOnlyHighPriority(t *testing.T) {
	// 12 drivers in zone A, none in B: two high-priority moves among five.
	notifier := &mockNotifier{}
	dispatches := &mockDispatchLog{}
	svc := newTestFleetService(&stubLister{candidates: driversAt(centroidA, "a", 12)}, notifier, dispatches)

	result, err := svc.RunFleetOptimization(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Triggered {
		t.Fatal("expected rebalancing to trigger")
	}
	if result.Executed != 2 {
		t.Fatalf("expected 2 high-priority executions, got %d", result.Executed)
	}
	if len(dispatches.recorded) != 2 || len(notifier.notified) != 2 {
		t.Fatalf("expected 2 dispatches and 2 notifications, got %d/%d",
			len(dispatches.recorded), len(notifier.notified))
	}
	for _, rec := range dispatches.recorded {
		if rec.Priority != PriorityHigh {
			t.Fatalf("executed a %s priority recommendation", rec.Priority)
		}
	}
}

func TestRunFleetOptimization_CapsExecutions(t *testing.T) {
	cfg := testFleetConfig()
	cfg.MaxExecutions = 1
	notifier := &mockNotifier{}
	svc := NewService(
		&stubZones{zones: twoZones()},
		&stubDemand{demand: equalDemand()},
		&stubLister{candidates: driversAt(centroidA, "a", 12)},
		notifier,
		&mockDispatchLog{},
		cfg,
		zerolog.Nop(),
	)

	result, err := svc.RunFleetOptimization(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Executed != 1 || len(notifier.notified) != 1 {
		t.Fatalf("expected exactly 1 execution, got %d executed, %d notified",
			result.Executed, len(notifier.notified))
	}
}

func TestRunFleetOptimization_DispatchFailureSkipsNotification(t *testing.T) {
	notifier := &mockNotifier{}
	dispatches := &mockDispatchLog{err: errors.New("insert failed")}
	svc := newTestFleetService(&stubLister{candidates: driversAt(centroidA, "a", 12)}, notifier, dispatches)

	result, err := svc.RunFleetOptimization(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Executed != 0 {
		t.Fatalf("expected 0 executions when dispatch log fails, got %d", result.Executed)
	}
	if len(notifier.notified) != 0 {
		t.Fatal("driver must not be notified when the dispatch was not recorded")
	}
}

func TestRunFleetOptimization_LoadFailureReturnsError(t *testing.T) {
	svc := NewService(
		&stubZones{err: errors.New("zones table missing")},
		&stubDemand{},
		&stubLister{},
		&mockNotifier{},
		&mockDispatchLog{},
		testFleetConfig(),
		zerolog.Nop(),
	)
	if _, err := svc.RunFleetOptimization(context.Background()); err == nil {
		t.Fatal("expected error when zone source fails")
	}
}

// ---------------------------------------------------------------------------
// Overlap protection
// ---------------------------------------------------------------------------

func TestRunFleetOptimization_SkipIfRunning(t *testing.T) {
	lister := &stubLister{
		candidates: nil,
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	svc := newTestFleetService(lister, &mockNotifier{}, &mockDispatchLog{})

	done := make(chan error, 1)
	go func() {
		_, err := svc.RunFleetOptimization(context.Background())
		done <- err
	}()

	<-lister.entered // first pass is now holding the lock

	if _, err := svc.RunFleetOptimization(context.Background()); !errors.Is(err, ErrOptimizationRunning) {
		t.Fatalf("expected ErrOptimizationRunning, got %v", err)
	}

	close(lister.release)
	if err := <-done; err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
}
