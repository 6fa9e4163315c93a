package callRepository

import (
	"context"

	"CallAgent/internal/entity"
)

// SessionStore keeps one CallSession per call id. Implementations are safe for
// concurrent use by every connected call.
type SessionStore interface {
	// Put stores session, replacing any session already held for its call id.
	Put(ctx context.Context, session entity.CallSession) error
	// Get returns a copy of the session or call.ErrSessionNotFound.
	Get(ctx context.Context, callID string) (entity.CallSession, error)
	// AppendTurns appends to the session only while sessionID is still the
	// current generation for callID; otherwise it returns call.ErrSessionNotFound.
	AppendTurns(ctx context.Context, callID, sessionID string, turns ...entity.Turn) error
	// Remove deletes the session only while sessionID is still the current
	// generation for callID, and reports whether it did.
	Remove(ctx context.Context, callID, sessionID string) (bool, error)
}

type AppointmentLog interface {
	AppendAppointment(ctx context.Context, record entity.AppointmentRecord) error
	ListAppointments(ctx context.Context) ([]entity.AppointmentRecord, error)
}

type QALog interface {
	AppendQA(ctx context.Context, record entity.QARecord) error
}
