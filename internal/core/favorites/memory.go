package favorites

import (
	"context"
	"slices"
	"sync"

	"lunch-mate/internal/pkg/common"

	"go.uber.org/zap"
)

// MemoryStore 記憶體收藏，重啟後清空
type MemoryStore struct {
	mu    sync.RWMutex
	lists map[string][]string
}

// NewMemoryStore 創建記憶體收藏
func NewMemoryStore() *MemoryStore {
	common.LogInfo("收藏儲存已初始化", zap.String("backend", "memory"))
	return &MemoryStore{lists: make(map[string][]string)}
}

// List 依加入順序回傳收藏 id 的副本
func (m *MemoryStore) List(_ context.Context, owner string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.lists[NormalizeOwner(owner)]), nil
}

// Toggle 切換收藏狀態，回傳 true 表示切換後為收藏
func (m *MemoryStore) Toggle(_ context.Context, owner, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	owner = NormalizeOwner(owner)
	if slices.Contains(m.lists[owner], id) {
		m.remove(owner, id)
		return false, nil
	}
	m.lists[owner] = append(m.lists[owner], id)
	return true, nil
}

// Add 加入收藏；已收藏時保留原本位置
func (m *MemoryStore) Add(_ context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	owner = NormalizeOwner(owner)
	if !slices.Contains(m.lists[owner], id) {
		m.lists[owner] = append(m.lists[owner], id)
	}
	return nil
}

// Remove 移除收藏，不存在時不視為錯誤
func (m *MemoryStore) Remove(_ context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.remove(NormalizeOwner(owner), id)
	return nil
}

// remove 呼叫端需持有寫鎖
func (m *MemoryStore) remove(owner, id string) {
	list := slices.DeleteFunc(slices.Clone(m.lists[owner]), func(v string) bool { return v == id })
	if len(list) == 0 {
		delete(m.lists, owner)
		return
	}
	m.lists[owner] = list
}

// Close 清空所有收藏
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	common.LogInfo("收藏儲存已關閉", zap.Int("owner_count", len(m.lists)))
	m.lists = make(map[string][]string)
	return nil
}
