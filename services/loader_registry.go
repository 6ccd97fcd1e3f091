package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TimeCanvasGo/models"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LoaderRegistry 按 (用户, 日期, 时区) 保存 DayLoader，
// 只保留快照以便失败时沿用上一次结果，每次 Reload 仍会完整重新查询。
type LoaderRegistry struct {
	store   DayStore
	mu      sync.Mutex
	loaders *lru.Cache[string, *DayLoader]
}

func NewLoaderRegistry(store DayStore, size int) (*LoaderRegistry, error) {
	if size <= 0 {
		return nil, fmt.Errorf("loader registry: size must be positive, got %d", size)
	}
	cache, err := lru.New[string, *DayLoader](size)
	if err != nil {
		return nil, err
	}
	return &LoaderRegistry{store: store, loaders: cache}, nil
}

func loaderKey(userID, date string, loc *time.Location) string {
	return userID + "|" + date + "|" + loc.String()
}

// Loader 获取或创建对应的 DayLoader
func (r *LoaderRegistry) Loader(userID, date string, loc *time.Location) (*DayLoader, error) {
	if loc == nil {
		loc = time.Local
	}
	key := loaderKey(userID, date, loc)

	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.loaders.Get(key); ok {
		return l, nil
	}
	l, err := NewDayLoader(r.store, userID, date, loc)
	if err != nil {
		return nil, err
	}
	r.loaders.Add(key, l)
	return l, nil
}

// Reload 重新加载并返回快照；出错时快照中保留上一次成功的数据
func (r *LoaderRegistry) Reload(ctx context.Context, userID, date string, loc *time.Location) (models.DaySnapshot, error) {
	l, err := r.Loader(userID, date, loc)
	if err != nil {
		return models.DaySnapshot{}, err
	}
	err = l.Reload(ctx)
	return l.Snapshot(), err
}

func (r *LoaderRegistry) Len() int {
	return r.loaders.Len()
}
