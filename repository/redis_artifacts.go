package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// redisGetter is the part of the redis client the repository reads through.
type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Close() error
}

// RedisArtifactRepository reads artifacts stored as plain string values
// under <prefix><name>.
type RedisArtifactRepository struct {
	client redisGetter
	prefix string
}

type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

func NewRedisArtifactRepository(opts RedisOptions) *RedisArtifactRepository {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return newRedisArtifactRepository(rdb, opts.KeyPrefix)
}

func newRedisArtifactRepository(client redisGetter, prefix string) *RedisArtifactRepository {
	return &RedisArtifactRepository{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisArtifactRepository) Load(ctx context.Context, name string) ([]byte, bool, error) {
	key := r.prefix + name
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

func (r *RedisArtifactRepository) Close() error {
	return r.client.Close()
}
