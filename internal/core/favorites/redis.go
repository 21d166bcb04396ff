package favorites

import (
	"context"
	"fmt"

	"lunch-mate/internal/infrastructure/config"
	"lunch-mate/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const keyPrefix = "lunchmate:favorites:"

// RedisStore 每位擁有者一個 Redis list
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 創建 Redis 收藏並測試連接
func NewRedisStore(ctx context.Context, cfg *config.FavoritesConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("收藏儲存已初始化",
		zap.String("backend", "redis"),
		zap.String("addr", cfg.RedisAddr),
		zap.Int("db", cfg.RedisDB),
	)
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) key(owner string) string {
	return keyPrefix + NormalizeOwner(owner)
}

// toggleScript 移除成功回傳 0，否則加到尾端回傳 1；在 Redis 端一次完成
var toggleScript = redis.NewScript(`
if redis.call('LREM', KEYS[1], 0, ARGV[1]) > 0 then
	return 0
end
redis.call('RPUSH', KEYS[1], ARGV[1])
return 1
`)

// addScript 已存在時不動並回傳 0，否則加到尾端回傳 1
var addScript = redis.NewScript(`
for _, v in ipairs(redis.call('LRANGE', KEYS[1], 0, -1)) do
	if v == ARGV[1] then
		return 0
	end
end
redis.call('RPUSH', KEYS[1], ARGV[1])
return 1
`)

// List 依加入順序回傳收藏 id
func (s *RedisStore) List(ctx context.Context, owner string) ([]string, error) {
	ids, err := s.client.LRange(ctx, s.key(owner), 0, -1).Result()
	if err != nil {
		return nil, common.ErrFavoritesStore.Wrap(fmt.Errorf("failed to list favorites: %w", err))
	}
	return ids, nil
}

// Toggle 切換收藏狀態，回傳 true 表示切換後為收藏
func (s *RedisStore) Toggle(ctx context.Context, owner, id string) (bool, error) {
	added, err := toggleScript.Run(ctx, s.client, []string{s.key(owner)}, id).Int()
	if err != nil {
		return false, common.ErrFavoritesStore.Wrap(fmt.Errorf("failed to toggle favorite: %w", err))
	}
	return added == 1, nil
}

// Add 加入收藏；已收藏時保留原本位置
func (s *RedisStore) Add(ctx context.Context, owner, id string) error {
	if err := addScript.Run(ctx, s.client, []string{s.key(owner)}, id).Err(); err != nil {
		return common.ErrFavoritesStore.Wrap(fmt.Errorf("failed to add favorite: %w", err))
	}
	return nil
}

// Remove 移除收藏，不存在時不視為錯誤
func (s *RedisStore) Remove(ctx context.Context, owner, id string) error {
	if err := s.client.LRem(ctx, s.key(owner), 0, id).Err(); err != nil {
		return common.ErrFavoritesStore.Wrap(fmt.Errorf("failed to remove favorite: %w", err))
	}
	return nil
}

// Close 關閉 Redis 連接
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping 檢查 Redis 連線，供就緒檢查使用
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
