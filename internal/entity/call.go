package entity

import "time"

type TurnRole string

const (
	RoleUser  TurnRole = "user"
	RoleModel TurnRole = "model"
)

type Turn struct {
	Role TurnRole `json:"role"`
	Text string   `json:"text"`
}

// CallSession is the live conversational state of one phone call. SessionID
// changes on every setup, so a stale writer holding an old SessionID can tell
// that the call it was working for has gone.
type CallSession struct {
	CallID    string    `json:"call_id"`
	SessionID string    `json:"session_id"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
	Turns     []Turn    `json:"turns"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy whose Turns slice shares nothing with s.
func (s CallSession) Clone() CallSession {
	out := s
	if s.Turns != nil {
		out.Turns = make([]Turn, len(s.Turns))
		copy(out.Turns, s.Turns)
	}
	return out
}
