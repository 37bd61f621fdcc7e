package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/minaretlabs/minaret/internal/model"
)

var Rdb *redis.Client

const activeAlertKey = "active_alert"

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	if err := Rdb.Set(ctx, key, value, expiration).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to add key to redis")
	}
}

// SetActiveAlert mirrors the in-process active alert with a TTL matching its
// auto-dismiss, so a display surface attaching after a process restart can
// still pull the current alert.
func SetActiveAlert(ctx context.Context, payload model.AlertPayload, ttl time.Duration) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal active alert")
		return
	}
	Set(ctx, activeAlertKey, raw, ttl)
}

// GetActiveAlert loads the mirrored alert, reporting false when none is
// active or redis is unreachable.
func GetActiveAlert(ctx context.Context) (model.AlertPayload, bool) {
	raw, err := Rdb.Get(ctx, activeAlertKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Error().Err(err).Msg("failed to read active alert from redis")
		}
		return model.AlertPayload{}, false
	}
	var payload model.AlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal active alert")
		return model.AlertPayload{}, false
	}
	return payload, true
}

// ClearActiveAlert drops the mirror on explicit dismissal.
func ClearActiveAlert(ctx context.Context) {
	if err := Rdb.Del(ctx, activeAlertKey).Err(); err != nil {
		log.Error().Err(err).Msg("failed to clear active alert in redis")
	}
}

// AlertMirror adapts the mirror functions to the dispatcher's pusher
// interface.
type AlertMirror struct{}

func (AlertMirror) PushAlert(payload model.AlertPayload, ttl time.Duration) {
	SetActiveAlert(context.Background(), payload, ttl)
}

func (AlertMirror) AlertClosed() {
	ClearActiveAlert(context.Background())
}
