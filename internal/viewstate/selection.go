package viewstate

import "sync"

// SelectionSummary 选择状态派生值
// 每次选择变化后重新计算并推送给监听方，用于命令可用性刷新
type SelectionSummary struct {
	SelectedCount int
	HasSelection  bool
	// CanEdit 编辑要求恰好选中一项
	CanEdit bool
	// CanDelete 删除/移出要求至少选中一项
	CanDelete bool
}

// SelectionList 当前页条目与选中子集的同步器
// 选择按页生效：整页替换时按新条目自带的标志重建选中子集，
// 旧条目不再被引用，也就不存在遗留的订阅
type SelectionList[T any] struct {
	mu          sync.Mutex
	items       []T
	selected    func(T) bool
	setSelected func(T, bool)
	listeners   []func(SelectionSummary)
}

// NewSelectionList 创建选择同步器
// selected/setSelected 读写条目自身的“已选中”标志
func NewSelectionList[T any](selected func(T) bool, setSelected func(T, bool)) *SelectionList[T] {
	return &SelectionList[T]{
		selected:    selected,
		setSelected: setSelected,
	}
}

// OnChanged 注册选择变化监听
func (l *SelectionList[T]) OnChanged(fn func(SelectionSummary)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// Replace 整页替换条目（翻页、筛选后调用）
// 选中子集由新条目的标志重建
func (l *SelectionList[T]) Replace(items []T) {
	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
	l.notify()
}

// Items 当前页全部条目
func (l *SelectionList[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T{}, l.items...)
}

// SelectedItems 当前页选中子集
func (l *SelectionList[T]) SelectedItems() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	var result []T
	for _, item := range l.items {
		if l.selected(item) {
			result = append(result, item)
		}
	}
	return result
}

// SetSelected 设置单个条目的选中标志（复选框路径）
func (l *SelectionList[T]) SetSelected(index int, value bool) {
	l.mu.Lock()
	if index < 0 || index >= len(l.items) {
		l.mu.Unlock()
		return
	}
	l.setSelected(l.items[index], value)
	l.mu.Unlock()
	l.notify()
}

// Toggle 翻转单个条目的选中标志
func (l *SelectionList[T]) Toggle(index int) {
	l.mu.Lock()
	if index < 0 || index >= len(l.items) {
		l.mu.Unlock()
		return
	}
	item := l.items[index]
	l.setSelected(item, !l.selected(item))
	l.mu.Unlock()
	l.notify()
}

// SelectAll 全选当前页
func (l *SelectionList[T]) SelectAll() {
	l.mu.Lock()
	for _, item := range l.items {
		l.setSelected(item, true)
	}
	l.mu.Unlock()
	l.notify()
}

// SelectNone 清空当前页选择
func (l *SelectionList[T]) SelectNone() {
	l.mu.Lock()
	for _, item := range l.items {
		l.setSelected(item, false)
	}
	l.mu.Unlock()
	l.notify()
}

// Invert 反选当前页
func (l *SelectionList[T]) Invert() {
	l.mu.Lock()
	for _, item := range l.items {
		l.setSelected(item, !l.selected(item))
	}
	l.mu.Unlock()
	l.notify()
}

// Summary 当前派生值
func (l *SelectionList[T]) Summary() SelectionSummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.summaryLocked()
}

func (l *SelectionList[T]) summaryLocked() SelectionSummary {
	count := 0
	for _, item := range l.items {
		if l.selected(item) {
			count++
		}
	}
	return SelectionSummary{
		SelectedCount: count,
		HasSelection:  count > 0,
		CanEdit:       count == 1,
		CanDelete:     count > 0,
	}
}

func (l *SelectionList[T]) notify() {
	l.mu.Lock()
	summary := l.summaryLocked()
	listeners := append([]func(SelectionSummary){}, l.listeners...)
	l.mu.Unlock()

	for _, fn := range listeners {
		fn(summary)
	}
}
