package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// RedisBlobs stores blobs in Redis so any instance behind a load
// balancer can serve a handle. Keys expire after ttl even if a revoke
// is lost.
type RedisBlobs struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ BlobStore = (*RedisBlobs)(nil)

type RedisOption func(*RedisBlobs)

// WithBlobTTL sets the expiration of blob keys.
func WithBlobTTL(ttl time.Duration) RedisOption {
	return func(r *RedisBlobs) {
		r.ttl = ttl
	}
}

// WithBlobPrefix sets the key prefix.
func WithBlobPrefix(prefix string) RedisOption {
	return func(r *RedisBlobs) {
		r.prefix = prefix
	}
}

// NewRedisBlobs connects to the Redis server at address.
func NewRedisBlobs(address, password string, db int, opts ...RedisOption) *RedisBlobs {
	return NewRedisBlobsFromClient(backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	}), opts...)
}

func NewRedisBlobsFromClient(client *backend.Client, opts ...RedisOption) *RedisBlobs {
	r := &RedisBlobs{
		client: client,
		prefix: "qrforge:blob:",
		ttl:    5 * time.Minute,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisBlobs) dataKey(id string) string { return r.prefix + id }
func (r *RedisBlobs) typeKey(id string) string { return r.prefix + id + ":type" }

func (r *RedisBlobs) Create(ctx context.Context, data []byte, contentType string) (string, error) {
	href := newHandle()
	id, _ := blobID(href)

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.dataKey(id), data, r.ttl)
	pipe.Set(ctx, r.typeKey(id), contentType, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to store blob in redis: %w", err)
	}
	return href, nil
}

func (r *RedisBlobs) Open(ctx context.Context, href string) ([]byte, string, error) {
	id, ok := blobID(href)
	if !ok {
		return nil, "", ErrBlobNotFound
	}

	vals, err := r.client.MGet(ctx, r.dataKey(id), r.typeKey(id)).Result()
	if err != nil {
		return nil, "", fmt.Errorf("failed to read blob from redis: %w", err)
	}
	data, ok1 := vals[0].(string)
	contentType, ok2 := vals[1].(string)
	if !ok1 || !ok2 {
		return nil, "", ErrBlobNotFound
	}
	return []byte(data), contentType, nil
}

func (r *RedisBlobs) Revoke(ctx context.Context, href string) error {
	id, ok := blobID(href)
	if !ok {
		return nil
	}
	if err := r.client.Del(ctx, r.dataKey(id), r.typeKey(id)).Err(); err != nil && !errors.Is(err, backend.Nil) {
		return fmt.Errorf("failed to revoke blob: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (r *RedisBlobs) Close() error {
	return r.client.Close()
}
