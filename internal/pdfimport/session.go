package pdfimport

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// State 导入会话状态
type State string

const (
	StateNoFile           State = "no_file"
	StateLoading          State = "loading"
	StateParsed           State = "parsed"
	StateParseFailed      State = "parse_failed"
	StateFieldsUnlocked   State = "fields_unlocked"
	StateValidating       State = "validating"
	StateSaved            State = "saved"
	StateValidationFailed State = "validation_failed"
)

var (
	ErrSessionNotFound = errors.New("导入会话不存在或已过期")
	ErrFieldLocked     = errors.New("字段处于锁定状态")
	ErrAlreadySaved    = errors.New("该会话已保存，不能重复提交")
)

// Session 一次 PDF 导入流程
// 解析成功后全部字段锁定只读，逐字段解锁后才允许改写，防止误覆盖自动提取的数据
type Session struct {
	ID     string
	State  State
	Fields map[string]string
	Locked map[string]bool
}

// Store 内存中的导入会话表
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore 创建会话表
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Begin 创建新会话并进入 Loading 状态
func (s *Store) Begin() *Session {
	session := &Session{
		ID:     uuid.New().String(),
		State:  StateLoading,
		Fields: make(map[string]string),
		Locked: make(map[string]bool),
	}
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return session
}

// Get 按 ID 查找会话
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Remove 丢弃会话（保存成功或用户取消后）
func (s *Store) Remove(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// MarkParsed 解析成功：填充字段并全部上锁
func (sess *Session) MarkParsed(fields map[string]string) {
	sess.Fields = fields
	sess.Locked = make(map[string]bool, len(fields))
	for field := range fields {
		sess.Locked[field] = true
	}
	sess.State = StateParsed
}

// MarkParseFailed 解析失败：字段保持为空，状态可恢复到手工录入
func (sess *Session) MarkParseFailed() {
	sess.Fields = make(map[string]string)
	sess.Locked = make(map[string]bool)
	sess.State = StateParseFailed
}

// Unlock 解锁指定字段
func (sess *Session) Unlock(fields []string) {
	for _, field := range fields {
		sess.Locked[field] = false
	}
	if sess.State == StateParsed {
		sess.State = StateFieldsUnlocked
	}
}

// Override 改写字段值，仅允许已解锁字段
func (sess *Session) Override(field, value string) error {
	if sess.Locked[field] {
		return ErrFieldLocked
	}
	sess.Fields[field] = value
	return nil
}

// BeginValidation 进入校验状态
func (sess *Session) BeginValidation() error {
	if sess.State == StateSaved {
		return ErrAlreadySaved
	}
	sess.State = StateValidating
	return nil
}

// MarkSaved 校验通过且已落库，流程终态
func (sess *Session) MarkSaved() {
	sess.State = StateSaved
}

// MarkValidationFailed 校验失败，回到可编辑状态
func (sess *Session) MarkValidationFailed() {
	sess.State = StateValidationFailed
}
