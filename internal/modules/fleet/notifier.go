// README: Redis pub/sub notifier; pushes repositioning offers to driver devices.
package fleet

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"gocars/internal/types"
)

const notifyChannelPrefix = "fleet:reposition:%s"

// repositionMessage is the wire payload the driver app subscribes to.
type repositionMessage struct {
	DriverID      string      `json:"driver_id"`
	TargetZone    string      `json:"target_zone"`
	Target        types.Point `json:"target"`
	Priority      string      `json:"priority"`
	TravelMinutes float64     `json:"travel_minutes"`
	Message       string      `json:"message,omitempty"`
}

// RedisNotifier publishes recommendations on a per-driver channel. The driver
// gateway (outside this subsystem) bridges the channel to the device.
type RedisNotifier struct {
	redis *redis.Client
}

func NewRedisNotifier(redisClient *redis.Client) *RedisNotifier {
	return &RedisNotifier{redis: redisClient}
}

func (n *RedisNotifier) NotifyDriver(ctx context.Context, driverID types.ID, rec Recommendation, message string) error {
	payload, err := json.Marshal(repositionMessage{
		DriverID:      string(driverID),
		TargetZone:    string(rec.ToZoneID),
		Target:        rec.To,
		Priority:      string(rec.Priority),
		TravelMinutes: rec.TravelMinutes,
		Message:       message,
	})
	if err != nil {
		return err
	}
	channel := fmt.Sprintf(notifyChannelPrefix, string(driverID))
	return n.redis.Publish(ctx, channel, payload).Err()
}
