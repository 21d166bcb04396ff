package favorites

import (
	"context"
	"fmt"
	"strings"

	"lunch-mate/internal/infrastructure/config"
)

// DefaultOwner 沒有帶 client id 時使用的擁有者
const DefaultOwner = "anonymous"

// Store 每位擁有者一份有序、不重複的收藏餐點 id
type Store interface {
	// List 依加入順序回傳收藏 id
	List(ctx context.Context, owner string) ([]string, error)
	// Toggle 切換收藏狀態，回傳 true 表示切換後為收藏
	Toggle(ctx context.Context, owner, id string) (bool, error)
	Add(ctx context.Context, owner, id string) error
	Remove(ctx context.Context, owner, id string) error
	Close() error
}

// NewStore 依設定建立收藏儲存
func NewStore(ctx context.Context, cfg *config.FavoritesConfig) (Store, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendRedis:
		return NewRedisStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported favorites backend %q", cfg.Backend)
	}
}

// NormalizeOwner 去除空白，空值回傳 DefaultOwner
func NormalizeOwner(owner string) string {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return DefaultOwner
	}
	return owner
}
