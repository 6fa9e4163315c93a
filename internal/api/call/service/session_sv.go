package callService

import (
	"context"
	"errors"
	"strings"

	"CallAgent/internal/api/call"
	"CallAgent/internal/entity"
	"CallAgent/pkg/log"
	"CallAgent/pkg/response"
)

func (s *callService) Setup(ctx context.Context, req call.SetupRequest) (entity.CallSession, error) {
	callID := strings.TrimSpace(req.CallID)
	if callID == "" {
		return entity.CallSession{}, call.ErrMissingCallSid
	}

	now := s.now()
	sessionID, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return entity.CallSession{}, response.Wrap(call.ErrSessionStore, err)
	}

	_, err = s.sessions.Get(ctx, callID)
	replaced := err == nil

	session := entity.CallSession{
		CallID:    callID,
		SessionID: sessionID,
		From:      req.From,
		To:        req.To,
		Turns:     []entity.Turn{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		s.log.WithFields(log.Fields{
			"call_id": callID,
			"error":   err.Error(),
		}).Error("[callService.Setup] failed to store session")
		return entity.CallSession{}, response.Wrap(call.ErrSessionStore, err)
	}

	if !replaced {
		s.metrics.SessionOpened()
	}

	s.log.WithFields(log.Fields{
		"call_id":          callID,
		"session_id":       sessionID,
		"relay_session_id": req.RelaySessionID,
		"from":             req.From,
		"to":               req.To,
		"replaced":         replaced,
	}).Info("Call setup")

	return session, nil
}

func (s *callService) Interrupt(_ context.Context, callID string, notice call.InterruptNotice) {
	s.log.WithFields(log.Fields{
		"call_id":            callID,
		"spoken_until":       notice.UtteranceUntilInterrupt,
		"spoken_duration_ms": notice.DurationUntilInterruptMs,
	}).Info("Call interrupted")
}

func (s *callService) Disconnect(ctx context.Context, callID, sessionID string) error {
	if callID == "" {
		return nil
	}

	removed, err := s.sessions.Remove(ctx, callID, sessionID)
	if err != nil {
		s.log.WithFields(log.Fields{
			"call_id": callID,
			"error":   err.Error(),
		}).Error("[callService.Disconnect] failed to remove session")
		return response.Wrap(call.ErrSessionStore, err)
	}

	if removed {
		s.metrics.SessionClosed()
		s.log.WithFields(log.Fields{
			"call_id":    callID,
			"session_id": sessionID,
		}).Info("Session cleared")
	}
	return nil
}

func (s *callService) Prompt(ctx context.Context, callID, utterance string) (*call.TurnResponse, error) {
	session, err := s.sessions.Get(ctx, callID)
	if errors.Is(err, call.ErrSessionNotFound) {
		s.log.WithFields(log.Fields{
			"call_id": callID,
		}).Warn("Prompt for unknown call")
		return nil, call.ErrSessionNotFound
	}
	if err != nil {
		log.ErrorWithTraceID(log.Fields{
			"call_id": callID,
			"error":   err.Error(),
		}, "[callService.Prompt] failed to load session")
		return s.respond(call.ApologyText, call.OutcomeError), nil
	}

	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return s.respond(call.RepromptText, call.OutcomeReprompt), nil
	}

	start := s.now()
	result, err := s.extractor.Extract(ctx, session.Turns, utterance)
	s.metrics.ObserveModel(start)

	if ctx.Err() != nil {
		s.metrics.TurnDiscarded()
		return nil, call.ErrSessionClosed
	}
	if err != nil {
		log.ErrorWithTraceID(log.Fields{
			"call_id":    callID,
			"session_id": session.SessionID,
			"error":      response.Wrap(call.ErrIntentExtraction, err).Error(),
		}, "[callService.Prompt] intent extraction failed")
		return s.respond(call.ApologyText, call.OutcomeError), nil
	}

	// The call may have hung up or been set up again while the model was busy.
	current, err := s.sessions.Get(ctx, callID)
	if err != nil || current.SessionID != session.SessionID {
		s.metrics.TurnDiscarded()
		s.log.WithFields(log.Fields{
			"call_id":    callID,
			"session_id": session.SessionID,
		}).Info("Session closed during turn, result discarded")
		return nil, call.ErrSessionClosed
	}

	res := s.dispatch(ctx, callID, utterance, result.Intent)

	err = s.sessions.AppendTurns(ctx, callID, session.SessionID,
		entity.Turn{Role: entity.RoleUser, Text: utterance},
		entity.Turn{Role: entity.RoleModel, Text: result.Raw},
	)
	if err != nil {
		s.log.WithFields(log.Fields{
			"call_id":    callID,
			"session_id": session.SessionID,
			"error":      err.Error(),
		}).Warn("[callService.Prompt] turn not added to history")
	}

	s.log.WithFields(log.Fields{
		"call_id": callID,
		"intent":  result.Intent.Kind,
		"outcome": res.Outcome,
	}).Info("Response sent")

	return res, nil
}

func (s *callService) respond(text string, outcome call.Outcome) *call.TurnResponse {
	s.metrics.Turn(string(outcome))
	return &call.TurnResponse{Text: text, Outcome: outcome}
}
