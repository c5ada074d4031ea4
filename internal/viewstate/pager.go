package viewstate

import "sync"

// AllowedPageSizes 允许的每页条数
var AllowedPageSizes = []int{10, 20, 30, 50, 100}

// DefaultPageSize 默认每页条数
const DefaultPageSize = 20

// Pager 分页状态
// 页码从 1 开始；每次页码或每页条数变化都会通知监听方重新查询
type Pager struct {
	mu       sync.Mutex
	page     int
	pageSize int
	total    int64

	pageListeners []func(page int)
	sizeListeners []func(size int)
}

// NewPager 创建分页器
func NewPager() *Pager {
	return &Pager{page: 1, pageSize: DefaultPageSize}
}

// OnPageChanged 注册页码变化监听
func (p *Pager) OnPageChanged(fn func(page int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pageListeners = append(p.pageListeners, fn)
}

// OnPageSizeChanged 注册每页条数变化监听
func (p *Pager) OnPageSizeChanged(fn func(size int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sizeListeners = append(p.sizeListeners, fn)
}

// Page 当前页码
func (p *Pager) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// PageSize 当前每页条数
func (p *Pager) PageSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageSize
}

// Total 当前总条数
func (p *Pager) Total() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// TotalPages 总页数 = ceil(total / pageSize)，无数据时为 0
func (p *Pager) TotalPages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalPagesLocked()
}

func (p *Pager) totalPagesLocked() int {
	if p.total <= 0 {
		return 0
	}
	pages := int(p.total) / p.pageSize
	if int(p.total)%p.pageSize > 0 {
		pages++
	}
	return pages
}

// Offset 当前页在结果集中的偏移
func (p *Pager) Offset() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return (p.page - 1) * p.pageSize
}

// SetPage 跳转页码，越界时钳制到 [1, max(1, totalPages)]
func (p *Pager) SetPage(page int) {
	p.mu.Lock()
	clamped := p.clampLocked(page)
	changed := clamped != p.page
	p.page = clamped
	listeners := append([]func(int){}, p.pageListeners...)
	p.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(clamped)
		}
	}
}

// SetPageSize 切换每页条数，非法值忽略；切换后页码重新钳制
func (p *Pager) SetPageSize(size int) {
	allowed := false
	for _, s := range AllowedPageSizes {
		if s == size {
			allowed = true
			break
		}
	}
	if !allowed {
		return
	}

	p.mu.Lock()
	if size == p.pageSize {
		p.mu.Unlock()
		return
	}
	p.pageSize = size
	oldPage := p.page
	p.page = p.clampLocked(p.page)
	newPage := p.page
	sizeListeners := append([]func(int){}, p.sizeListeners...)
	pageListeners := append([]func(int){}, p.pageListeners...)
	p.mu.Unlock()

	for _, fn := range sizeListeners {
		fn(size)
	}
	if newPage != oldPage {
		for _, fn := range pageListeners {
			fn(newPage)
		}
	}
}

// SetTotal 刷新总条数（每次查询后调用）
// 批量删除后当前页可能超出新的总页数，此时钳回最后一页
func (p *Pager) SetTotal(total int64) {
	p.mu.Lock()
	p.total = total
	clamped := p.clampLocked(p.page)
	changed := clamped != p.page
	p.page = clamped
	listeners := append([]func(int){}, p.pageListeners...)
	p.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(clamped)
		}
	}
}

func (p *Pager) clampLocked(page int) int {
	maxPage := p.totalPagesLocked()
	if maxPage < 1 {
		maxPage = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if page < 1 {
		page = 1
	}
	return page
}

// ── 导航可用性 ──

// CanFirst 是否可跳转首页
func (p *Pager) CanFirst() bool { return p.Page() > 1 }

// CanPrev 是否可上一页
func (p *Pager) CanPrev() bool { return p.Page() > 1 }

// CanNext 是否可下一页
func (p *Pager) CanNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page < p.totalPagesLocked()
}

// CanLast 是否可跳转末页
func (p *Pager) CanLast() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page < p.totalPagesLocked()
}

// First 跳转首页
func (p *Pager) First() { p.SetPage(1) }

// Prev 上一页
func (p *Pager) Prev() { p.SetPage(p.Page() - 1) }

// Next 下一页
func (p *Pager) Next() { p.SetPage(p.Page() + 1) }

// Last 跳转末页
func (p *Pager) Last() { p.SetPage(p.TotalPages()) }
