package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// QRStore holds the single "current QR code" shown on the check-in display.
// The original deployment kept this in an unsynchronized process global;
// backing it with Redis makes rotation and scanning safe across concurrent
// kiosks and server replicas.
type QRStore interface {
	Current(ctx context.Context) (string, error)
	Set(ctx context.Context, code string) error
	// Consume atomically invalidates the current code when it matches the
	// scanned one. Returns false when the scan lost the race or was stale.
	Consume(ctx context.Context, code string) (bool, error)
}

const qrKey = "checkin:current_qr"

// Codes left unscanned expire so a stale display cannot be replayed forever.
const qrTTL = 10 * time.Minute

// consumeScript deletes the key only if it still holds the scanned value,
// making check-and-clear a single round trip.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisQRStore struct {
	client *redis.Client
}

func NewRedisQRStore(client *redis.Client) QRStore {
	return &redisQRStore{client: client}
}

func (s *redisQRStore) Current(ctx context.Context) (string, error) {
	code, err := s.client.Get(ctx, qrKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	return code, err
}

func (s *redisQRStore) Set(ctx context.Context, code string) error {
	return s.client.Set(ctx, qrKey, code, qrTTL).Err()
}

func (s *redisQRStore) Consume(ctx context.Context, code string) (bool, error) {
	deleted, err := consumeScript.Run(ctx, s.client, []string{qrKey}, code).Int()
	if err != nil {
		return false, err
	}
	return deleted == 1, nil
}
