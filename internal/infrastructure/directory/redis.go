package directory

import (
	"context"
	"fmt"

	"github.com/karasi-sonica/PawzIO/internal/application"
	"github.com/karasi-sonica/PawzIO/internal/config"
	"github.com/redis/go-redis/v9"
)

// RedisDirectory keeps the provider roster in redis so several dispatcher
// instances see the same roles and walk-load counters. Roles live in a hash,
// role membership in sets, load in plain counters.
type RedisDirectory struct {
	client *redis.Client
}

func NewRedisDirectory(cfg config.RedisConfig) *RedisDirectory {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisDirectory{client: c}
}

func (d *RedisDirectory) Close() error {
	return d.client.Close()
}

// Register adds a provider to the roster under the given role.
func (d *RedisDirectory) Register(ctx context.Context, providerID string, role application.ProviderRole) error {
	if err := d.client.HSet(ctx, rolesKey, providerID, string(role)).Err(); err != nil {
		return fmt.Errorf("register provider role: %w", err)
	}
	if err := d.client.SAdd(ctx, roleSetKey(role), providerID).Err(); err != nil {
		return fmt.Errorf("register provider membership: %w", err)
	}
	return nil
}

func (d *RedisDirectory) RoleOf(ctx context.Context, providerID string) (application.ProviderRole, error) {
	role, err := d.client.HGet(ctx, rolesKey, providerID).Result()
	if err == redis.Nil {
		return "", application.ErrProviderNotFound
	}
	if err != nil {
		return "", fmt.Errorf("fetch provider role: %w", err)
	}
	return application.ProviderRole(role), nil
}

func (d *RedisDirectory) CurrentLoad(ctx context.Context, providerID string) (int, error) {
	if _, err := d.RoleOf(ctx, providerID); err != nil {
		return 0, err
	}

	load, err := d.client.Get(ctx, loadKey(providerID)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("fetch provider load: %w", err)
	}
	return load, nil
}

func (d *RedisDirectory) ProvidersWithRole(ctx context.Context, role application.ProviderRole) ([]string, error) {
	ids, err := d.client.SMembers(ctx, roleSetKey(role)).Result()
	if err != nil {
		return nil, fmt.Errorf("list providers with role %s: %w", role, err)
	}
	return ids, nil
}

func (d *RedisDirectory) IncrLoad(ctx context.Context, providerID string) error {
	return d.client.Incr(ctx, loadKey(providerID)).Err()
}

func (d *RedisDirectory) DecrLoad(ctx context.Context, providerID string) error {
	load, err := d.client.Decr(ctx, loadKey(providerID)).Result()
	if err != nil {
		return err
	}
	// Counters never go negative even if a decrement races a reset.
	if load < 0 {
		return d.client.Set(ctx, loadKey(providerID), 0, 0).Err()
	}
	return nil
}

const rolesKey = "pawzio:provider:roles"

func roleSetKey(role application.ProviderRole) string {
	return "pawzio:providers:" + string(role)
}

func loadKey(providerID string) string {
	return "pawzio:provider:load:" + providerID
}
