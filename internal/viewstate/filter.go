package viewstate

import (
	"sync"
	"unicode"

	"github.com/Ta321487/TicketAssitant-sub000/internal/model"
)

// FilterState 查询条件累积器
// Apply 提交当前条件快照并触发一次 filter-applied 事件；Reset 清空并触发等价的空条件事件
type FilterState[C any] struct {
	mu        sync.Mutex
	criteria  C
	listeners []func(C)
}

// NewFilterState 创建查询条件累积器
func NewFilterState[C any]() *FilterState[C] {
	return &FilterState[C]{}
}

// OnApplied 注册条件提交监听
func (f *FilterState[C]) OnApplied(fn func(C)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
}

// Update 修改尚未提交的条件
func (f *FilterState[C]) Update(mutate func(*C)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	mutate(&f.criteria)
}

// Criteria 当前（未必已提交的）条件
func (f *FilterState[C]) Criteria() C {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.criteria
}

// Apply 提交条件并广播快照
func (f *FilterState[C]) Apply() {
	f.mu.Lock()
	snapshot := f.criteria
	listeners := append([]func(C){}, f.listeners...)
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Reset 清空条件并广播空快照
func (f *FilterState[C]) Reset() {
	f.mu.Lock()
	var zero C
	f.criteria = zero
	listeners := append([]func(C){}, f.listeners...)
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(zero)
	}
}

// ── 车站增量搜索 ──

// StationSearchRequest 一次增量搜索请求
type StationSearchRequest struct {
	// Keyword 已去除“站”后缀的关键字
	Keyword string
	// PhoneticPrefix 全字母输入按拼音前缀匹配，否则按站名子串匹配
	PhoneticPrefix bool
	// Generation 请求代号，回包时比对以丢弃过期结果
	Generation uint64
}

// StationSearchInput 车站搜索输入框状态
// 程序回填文本（如用户刚点选了候选项）时抑制搜索触发，避免候选列表重新弹出
type StationSearchInput struct {
	mu         sync.Mutex
	text       string
	generation uint64
	listeners  []func(StationSearchRequest)
}

// NewStationSearchInput 创建搜索输入状态
func NewStationSearchInput() *StationSearchInput {
	return &StationSearchInput{}
}

// OnSearch 注册搜索触发监听
func (s *StationSearchInput) OnSearch(fn func(StationSearchRequest)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// SetText 更新输入文本
// programmatic 为 true 表示程序回填，不触发搜索
func (s *StationSearchInput) SetText(text string, programmatic bool) {
	s.mu.Lock()
	s.text = text
	if programmatic {
		s.mu.Unlock()
		return
	}

	s.generation++
	req := StationSearchRequest{
		Keyword:        model.NormalizeStationName(text),
		PhoneticPrefix: isAlphabetic(text),
		Generation:     s.generation,
	}
	listeners := append([]func(StationSearchRequest){}, s.listeners...)
	s.mu.Unlock()

	if req.Keyword == "" {
		return
	}
	for _, fn := range listeners {
		fn(req)
	}
}

// Text 当前输入文本
func (s *StationSearchInput) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// IsCurrent 判断回包是否仍属于最新一次请求
// 过期结果直接丢弃（尽力而为，不做真正的取消）
func (s *StationSearchInput) IsCurrent(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return generation == s.generation
}

// isAlphabetic 是否为全字母输入
func isAlphabetic(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !unicode.IsLetter(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
