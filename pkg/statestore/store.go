package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/luminacommerce/copilot-actions/pkg/config"
	"github.com/luminacommerce/copilot-actions/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace   = "cp"
	sessionPrefix  = "session"
	snapshotSuffix = "snapshot"
	summarySuffix  = "cart_summary"

	defaultSnapshotTTL = 24 * time.Hour
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Snapshot is the host storefront's view of one browsing session: the
// detected location, the product page in view and the listing order on
// screen. The copilot only ever reads it as a best-effort point-in-time
// copy; the storefront owns writes.
type Snapshot struct {
	Pincode      string            `json:"pincode,omitempty"`
	LocalityName string            `json:"locality_name,omitempty"`
	ProductSlug  string            `json:"product_slug,omitempty"`
	Listing      []string          `json:"listing,omitempty"`
	Custom       map[string]string `json:"custom,omitempty"`
}

// CartSummary is the externally-held cart digest refreshed after mutations.
type CartSummary struct {
	ItemCount int       `json:"item_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists per-session storefront state in Redis.
type Store struct {
	store cmdable
	raw   *redis.Client
	ttl   time.Duration
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// New bootstraps the session state store and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Store, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Store{store: raw, raw: raw, ttl: defaultSnapshotTTL}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Snapshot reads the session state. A missing key yields an empty snapshot,
// not an error; absence of host state is a normal condition.
func (s *Store) Snapshot(ctx context.Context, sessionID string) (*Snapshot, error) {
	if s == nil || s.store == nil {
		return &Snapshot{}, nil
	}
	raw, err := s.store.Get(ctx, s.SnapshotKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &Snapshot{}, nil
		}
		return nil, fmt.Errorf("read session snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decode session snapshot: %w", err)
	}
	return &snap, nil
}

// SaveSnapshot replaces the session state; called by the storefront's state
// push endpoint, never by the pipelines.
func (s *Store) SaveSnapshot(ctx context.Context, sessionID string, snap *Snapshot) error {
	if s == nil || s.store == nil {
		return errors.New("state store not initialized")
	}
	if snap == nil {
		return errors.New("snapshot is required")
	}
	encoded, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session snapshot: %w", err)
	}
	return s.store.Set(ctx, s.SnapshotKey(sessionID), encoded, s.ttl).Err()
}

// CartSummary reads the cached cart digest, if any.
func (s *Store) CartSummary(ctx context.Context, sessionID string) (*CartSummary, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	raw, err := s.store.Get(ctx, s.CartSummaryKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cart summary: %w", err)
	}
	var summary CartSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, fmt.Errorf("decode cart summary: %w", err)
	}
	return &summary, nil
}

// SaveCartSummary refreshes the cart digest after a mutation.
func (s *Store) SaveCartSummary(ctx context.Context, sessionID string, summary CartSummary) error {
	if s == nil || s.store == nil {
		return errors.New("state store not initialized")
	}
	encoded, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode cart summary: %w", err)
	}
	return s.store.Set(ctx, s.CartSummaryKey(sessionID), encoded, s.ttl).Err()
}

// ClearSession drops all state held for a session.
func (s *Store) ClearSession(ctx context.Context, sessionID string) error {
	if s == nil || s.store == nil {
		return errors.New("state store not initialized")
	}
	return s.store.Del(ctx, s.SnapshotKey(sessionID), s.CartSummaryKey(sessionID)).Err()
}

// SnapshotKey returns the namespaced key for a session's snapshot.
func (s *Store) SnapshotKey(sessionID string) string {
	return buildKey(sessionPrefix, sessionID, snapshotSuffix)
}

// CartSummaryKey returns the namespaced key for a session's cart digest.
func (s *Store) CartSummaryKey(sessionID string) string {
	return buildKey(sessionPrefix, sessionID, summarySuffix)
}

// Ping verifies connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.store == nil {
		return errors.New("state store not initialized")
	}
	return s.store.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.raw == nil {
		return nil
	}
	return s.raw.Close()
}

func buildKey(parts ...string) string {
	return keyNamespace + ":" + strings.Join(parts, ":")
}
