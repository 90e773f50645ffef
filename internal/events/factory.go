package events

import (
	"fmt"

	"videotube/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewBrokerFromConfig selects the broker named by EVENT_BROKER. A nil
// broker means events are disabled.
func NewBrokerFromConfig(cfg *config.Config, rdb *redis.Client) (Broker, error) {
	switch cfg.EventBroker {
	case "none", "":
		return nil, nil
	case "redis":
		if rdb == nil {
			return nil, nil
		}
		return NewRedisBroker(rdb), nil
	case "nats":
		b, err := ConnectNats(cfg.NATSURL)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown event broker: %s", cfg.EventBroker)
	}
}
