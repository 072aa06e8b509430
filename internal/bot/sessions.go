package bot

import "sync"

// Sessions — кто вошёл в каком чате. Живёт в памяти процесса.
type Sessions struct {
	mu   sync.RWMutex
	byID map[int64]string
}

func NewSessions() *Sessions {
	return &Sessions{byID: make(map[int64]string)}
}

func (s *Sessions) Login(chatID int64, userID string) {
	s.mu.Lock()
	s.byID[chatID] = userID
	s.mu.Unlock()
}

func (s *Sessions) Logout(chatID int64) {
	s.mu.Lock()
	delete(s.byID, chatID)
	s.mu.Unlock()
}

func (s *Sessions) User(chatID int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byID[chatID]
	return id, ok
}

// Chats — копия реестра для рассылок.
func (s *Sessions) Chats() map[int64]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]string, len(s.byID))
	for k, v := range s.byID {
		out[k] = v
	}
	return out
}

// ChatLimiter предотвращает одновременную обработку двух команд в одном чате.
type ChatLimiter struct {
	mu   sync.Mutex
	byID map[int64]*sync.Mutex
}

func NewChatLimiter() *ChatLimiter {
	return &ChatLimiter{byID: make(map[int64]*sync.Mutex)}
}

func (l *ChatLimiter) lock(chatID int64) func() {
	l.mu.Lock()
	m, ok := l.byID[chatID]
	if !ok {
		m = &sync.Mutex{}
		l.byID[chatID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
