package telegram

import (
	"sync"

	"github.com/silowatch/silowatch/internal/conversation"
	"github.com/silowatch/silowatch/internal/management"
)

// session holds the wizard state of one chat. The mutex serializes all
// inputs for the chat so transitions never interleave; different chats run
// concurrently.
type session struct {
	mu   sync.Mutex
	conv conversation.State
	mgmt management.State
}

type sessionMap struct {
	m sync.Map
}

func (s *sessionMap) get(chatID int64) *session {
	v, _ := s.m.LoadOrStore(chatID, &session{})
	return v.(*session)
}
