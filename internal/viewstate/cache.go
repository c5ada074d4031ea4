package viewstate

import (
	"fmt"
	"sync"
)

// 缓存页数上限，超出时整体清空（前后翻页的工作集远小于该值）
const maxCachedPages = 32

// CachedPage 一页已取回的结果
type CachedPage[T any] struct {
	Items []T
	Total int64
}

// PageCache 按 (页码, 筛选签名) 缓存已取回的页，避免前后翻页重复查询
// 筛选、排序或底层数据变化时由持有方显式 Invalidate
type PageCache[T any] struct {
	mu    sync.Mutex
	pages map[string]CachedPage[T]
}

// NewPageCache 创建页缓存
func NewPageCache[T any]() *PageCache[T] {
	return &PageCache[T]{pages: make(map[string]CachedPage[T])}
}

func cacheKey(page int, signature string) string {
	return fmt.Sprintf("%d|%s", page, signature)
}

// Get 读取缓存页
func (c *PageCache[T]) Get(page int, signature string) (CachedPage[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cached, ok := c.pages[cacheKey(page, signature)]
	return cached, ok
}

// Put 写入缓存页
func (c *PageCache[T]) Put(page int, signature string, items []T, total int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pages) >= maxCachedPages {
		c.pages = make(map[string]CachedPage[T])
	}
	c.pages[cacheKey(page, signature)] = CachedPage[T]{Items: items, Total: total}
}

// Invalidate 清空全部缓存页
func (c *PageCache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = make(map[string]CachedPage[T])
}

// Len 当前缓存页数
func (c *PageCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pages)
}
