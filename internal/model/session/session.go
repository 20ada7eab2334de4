package session

import "time"

// Session captures one conversation's turn history. It is owned by the
// session store; callers append turns through the store, never in place.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
	Turns     []Turn    `json:"turns"`
}

// Turn is one question/answer exchange. Immutable once appended.
type Turn struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// New returns an empty session created now.
func New(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Turns:     make([]Turn, 0, 8),
	}
}

// Append records a completed exchange and refreshes the update time.
func (s *Session) Append(question, answer string) {
	now := time.Now().UTC()
	s.Turns = append(s.Turns, Turn{Question: question, Answer: answer, Timestamp: now})
	s.UpdatedAt = now
}
