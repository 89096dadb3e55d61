package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cinetick/booking/internal/repository"
)

// holdKeyPrefix namespaces the per-session seat hold mirror in Redis.
const holdKeyPrefix = "booking:hold:"

// Holds mirrors each session's seat selection into Redis with the session
// TTL. The mirror is best effort: a nil or unreachable Redis never blocks
// the booking flow, it only disables crash recovery. On startup
// RecoverOrphans clears selections left behind by a previous process.
type Holds struct {
	client *redis.Client
	seats  *repository.SeatRepo
}

// NewHolds constructs the hold mirror. client may be nil.
func NewHolds(client *redis.Client, seats *repository.SeatRepo) *Holds {
	return &Holds{client: client, seats: seats}
}

// Mirror records the session's current seat ids under its hold key. An
// empty selection removes the key.
func (h *Holds) Mirror(ctx context.Context, sessionID string, seatIDs []string, ttl time.Duration) {
	if h == nil || h.client == nil {
		return
	}
	key := holdKeyPrefix + sessionID
	if len(seatIDs) == 0 {
		if err := h.client.Del(ctx, key).Err(); err != nil {
			log.Printf("booking: hold mirror del %s: %v", key, err)
		}
		return
	}
	pipe := h.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.RPush(ctx, key, toAny(seatIDs)...)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("booking: hold mirror write %s: %v", key, err)
	}
}

// Clear drops a session's hold key.
func (h *Holds) Clear(ctx context.Context, sessionID string) {
	if h == nil || h.client == nil {
		return
	}
	if err := h.client.Del(ctx, holdKeyPrefix+sessionID).Err(); err != nil {
		log.Printf("booking: hold mirror clear: %v", err)
	}
}

// RecoverOrphans walks all hold keys and releases the seat selections
// they record. Called once at startup, before any session exists in this
// process, so every surviving key is an orphan from a crashed instance.
// Reserved seats are untouched; only the transient selected flag clears.
func (h *Holds) RecoverOrphans(ctx context.Context) error {
	if h == nil || h.client == nil {
		return nil
	}
	iter := h.client.Scan(ctx, 0, holdKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		seatIDs, err := h.client.LRange(ctx, key, 0, -1).Result()
		if err != nil {
			log.Printf("booking: recover read %s: %v", key, err)
			continue
		}
		for _, seatID := range seatIDs {
			if err := h.seats.SetSelected(ctx, seatID, false); err != nil &&
				!errors.Is(err, repository.ErrSeatNotFound) {
				log.Printf("booking: recover release seat %s: %v", seatID, err)
			}
		}
		if err := h.client.Del(ctx, key).Err(); err != nil {
			log.Printf("booking: recover del %s: %v", key, err)
		}
	}
	return iter.Err()
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
