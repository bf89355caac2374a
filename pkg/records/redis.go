package records

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/seatmap/pkg/errors"
)

// DefaultRedisPrefix namespaces layout keys.
const DefaultRedisPrefix = "seatmap:layout:"

const (
	redisDialTimeout = 2 * time.Second
	redisScanCount   = 100
)

// RedisStore keeps each layout under <prefix><id> as a JSON envelope
// {"id", "layout", "updatedAt"}.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisStore wraps an existing client. An empty prefix uses
// [DefaultRedisPrefix].
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

// DialRedis connects to addr and verifies the connection with PING.
func DialRedis(ctx context.Context, addr, password string, db int, prefix string) (*RedisStore, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, storageErr(err, "connect to redis at %s", addr)
	}
	return NewRedisStore(client, prefix), nil
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := errors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr(err, "get layout %s", id)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, storageErr(err, "decode layout %s", id)
	}
	rec.ID = id
	return &rec, nil
}

func (s *RedisStore) Set(ctx context.Context, id string, layout []byte) error {
	if err := errors.ValidateLayoutID(id); err != nil {
		return err
	}
	data, err := json.Marshal(Record{
		ID:        id,
		Layout:    normalizeValue(layout),
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLayout, err, "layout %s is not valid JSON", id)
	}
	if err := s.client.Set(ctx, s.key(id), data, 0).Err(); err != nil {
		return storageErr(err, "set layout %s", id)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateLayoutID(id); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return storageErr(err, "delete layout %s", id)
	}
	return nil
}

// List walks the key space with SCAN, so it does not block the server on
// large databases.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var (
		ids    []string
		cursor uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", redisScanCount).Result()
		if err != nil {
			return nil, storageErr(err, "list layouts")
		}
		for _, k := range keys {
			ids = append(ids, strings.TrimPrefix(k, s.prefix))
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
