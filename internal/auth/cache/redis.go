package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/redis/go-redis/v9"
)

// Default timeouts and TTL for Redis operations.
const (
	DefaultDialTimeout  = 5 * time.Second
	DefaultReadTimeout  = 3 * time.Second
	DefaultWriteTimeout = 3 * time.Second
	DefaultTTL          = 30 * time.Second
	DefaultKeyPrefix    = "sessiongate:"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int

	// KeyPrefix namespaces every key, e.g. "sessiongate:prod:".
	KeyPrefix string

	// TTL bounds how long an entry or a tombstone is kept.
	TTL time.Duration

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// tombstone is stored under a revoked key in place of the session.
const tombstone = "revoked"

// fillScript sets KEYS[1] unless it holds the tombstone.
//
//	ARGV[1] tombstone, ARGV[2] value, ARGV[3] ttl in milliseconds
var fillScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// RedisCache implements SessionCache on Redis.
type RedisCache struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// cachedSession is the JSON form of a live session.
type cachedSession struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	ClientID           string     `json:"client_id"`
	DeviceID           string     `json:"device_id"`
	DeviceName         string     `json:"device_name,omitempty"`
	Platform           string     `json:"platform,omitempty"`
	IPAddress          string     `json:"ip_address,omitempty"`
	UserAgent          string     `json:"user_agent,omitempty"`
	TokenCorrelationID string     `json:"token_correlation_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	LastSeenAt         time.Time  `json:"last_seen_at"`
	RevokedAt          *time.Time `json:"revoked_at,omitempty"`
	Version            int64      `json:"version"`
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	if cfg.Addr == "" {
		return nil, errors.New("cache: redis address is required")
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: failed to connect to redis: %w", err)
	}

	return NewRedisFromClient(client, cfg.KeyPrefix, cfg.TTL), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// Close releases the underlying client.
func (c *RedisCache) Close() error { return c.client.Close() }

// Ping checks connectivity (readiness).
func (c *RedisCache) Ping(ctx context.Context) error { return c.client.Ping(ctx).Err() }

func (c *RedisCache) key(k domain.SessionKey) string {
	return c.keyPrefix + "session:" +
		url.PathEscape(k.UserID) + ":" +
		url.PathEscape(k.ClientID) + ":" +
		url.PathEscape(k.DeviceID)
}

func (c *RedisCache) Get(ctx context.Context, key domain.SessionKey) (domain.Session, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, ErrMiss
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("cache: get: %w", err)
	}
	if string(raw) == tombstone {
		return domain.Session{}, ErrMiss
	}

	var cs cachedSession
	if err := json.Unmarshal(raw, &cs); err != nil {
		return domain.Session{}, fmt.Errorf("cache: decode: %w", err)
	}
	return domain.Session{
		ID:                 cs.ID,
		UserID:             cs.UserID,
		ClientID:           cs.ClientID,
		DeviceID:           cs.DeviceID,
		DeviceName:         cs.DeviceName,
		Platform:           cs.Platform,
		IPAddress:          cs.IPAddress,
		UserAgent:          cs.UserAgent,
		TokenCorrelationID: cs.TokenCorrelationID,
		IsActive:           true,
		IsRevoked:          false,
		CreatedAt:          cs.CreatedAt,
		LastSeenAt:         cs.LastSeenAt,
		RevokedAt:          cs.RevokedAt,
		Version:            cs.Version,
	}, nil
}

// Set stores a live session unless its key is tombstoned. A session that
// is not live tombstones its key instead.
func (c *RedisCache) Set(ctx context.Context, s domain.Session) error {
	if !s.Live() {
		return c.Revoke(ctx, s.Key())
	}

	raw, err := json.Marshal(cachedSession{
		ID:                 s.ID,
		UserID:             s.UserID,
		ClientID:           s.ClientID,
		DeviceID:           s.DeviceID,
		DeviceName:         s.DeviceName,
		Platform:           s.Platform,
		IPAddress:          s.IPAddress,
		UserAgent:          s.UserAgent,
		TokenCorrelationID: s.TokenCorrelationID,
		CreatedAt:          s.CreatedAt,
		LastSeenAt:         s.LastSeenAt,
		RevokedAt:          s.RevokedAt,
		Version:            s.Version,
	})
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	err = fillScript.Run(ctx, c.client, []string{c.key(s.Key())}, tombstone, raw, c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("cache: set: %w", err)
	}
	return nil
}

func (c *RedisCache) Revoke(ctx context.Context, keys ...domain.SessionKey) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range keys {
			p.Set(ctx, c.key(k), tombstone, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache: revoke: %w", err)
	}
	return nil
}

func (c *RedisCache) Forget(ctx context.Context, keys ...domain.SessionKey) error {
	if len(keys) == 0 {
		return nil
	}
	redisKeys := make([]string, len(keys))
	for i, k := range keys {
		redisKeys[i] = c.key(k)
	}
	if err := c.client.Del(ctx, redisKeys...).Err(); err != nil {
		return fmt.Errorf("cache: delete: %w", err)
	}
	return nil
}
