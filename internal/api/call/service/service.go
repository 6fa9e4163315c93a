package callService

import (
	"context"
	"time"

	"CallAgent/internal/api/call"
	callRepository "CallAgent/internal/api/call/repository"
	"CallAgent/internal/entity"
	"CallAgent/pkg/metrics"
	"CallAgent/pkg/nlp"
	"CallAgent/pkg/utils"

	"github.com/sirupsen/logrus"
)

type ICallService interface {
	Setup(ctx context.Context, req call.SetupRequest) (entity.CallSession, error)
	// Prompt answers one utterance. It returns call.ErrSessionNotFound for an
	// unknown call and call.ErrSessionClosed when the call ended mid-turn; in
	// both cases nothing must be sent back.
	Prompt(ctx context.Context, callID, utterance string) (*call.TurnResponse, error)
	Interrupt(ctx context.Context, callID string, notice call.InterruptNotice)
	// Disconnect releases the session of callID unless a later setup has
	// already replaced sessionID.
	Disconnect(ctx context.Context, callID, sessionID string) error
}

type callService struct {
	log          *logrus.Logger
	sessions     callRepository.SessionStore
	extractor    nlp.IIntentExtractor
	availability IAvailabilityChecker
	appointments callRepository.AppointmentLog
	qa           callRepository.QALog
	utils        utils.IUtils
	metrics      *metrics.Metrics
	now          func() time.Time
}

func New(
	log *logrus.Logger,
	sessions callRepository.SessionStore,
	extractor nlp.IIntentExtractor,
	availability IAvailabilityChecker,
	appointments callRepository.AppointmentLog,
	qa callRepository.QALog,
	utils utils.IUtils,
	metrics *metrics.Metrics,
) ICallService {
	return &callService{
		log:          log,
		sessions:     sessions,
		extractor:    extractor,
		availability: availability,
		appointments: appointments,
		qa:           qa,
		utils:        utils,
		metrics:      metrics,
		now:          time.Now,
	}
}
