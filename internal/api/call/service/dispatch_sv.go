package callService

import (
	"context"
	"strings"

	"CallAgent/internal/api/call"
	"CallAgent/internal/entity"
	"CallAgent/pkg/log"
	"CallAgent/pkg/nlp"
	"CallAgent/pkg/response"
)

func (s *callService) dispatch(ctx context.Context, callID, utterance string, intent entity.Intent) *call.TurnResponse {
	if intent.Kind == entity.IntentAppointment {
		if intent.Appointment == nil {
			return s.respond(call.ClarifyText, call.OutcomeClarify)
		}
		return s.book(ctx, callID, *intent.Appointment)
	}
	return s.answer(ctx, callID, utterance, intent.Answer)
}

func (s *callService) book(ctx context.Context, callID string, req entity.AppointmentRequest) *call.TurnResponse {
	date := strings.TrimSpace(req.Date)
	tm := strings.TrimSpace(req.Time)

	_, dateErr := nlp.NormalizeDate(date)
	_, timeErr := nlp.NormalizeTime(tm)
	if dateErr != nil || timeErr != nil {
		s.log.WithFields(log.Fields{
			"call_id":   callID,
			"slot_date": date,
			"slot_time": tm,
		}).Info("Appointment request without a usable date or time")
		return s.respond(call.ClarifyText, call.OutcomeClarify)
	}

	available, err := s.availability.Check(ctx, date, tm)
	if err != nil {
		log.ErrorWithTraceID(log.Fields{
			"call_id": callID,
			"error":   response.Wrap(call.ErrAvailabilityCheck, err).Error(),
		}, "[callService.book] availability check failed")
		return s.respond(call.ApologyText, call.OutcomeError)
	}
	if !available {
		return s.respond(call.SlotTakenText(date, tm), call.OutcomeSlotTaken)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = call.UnknownName
	}

	record := entity.AppointmentRecord{
		Timestamp: s.now().UTC(),
		Name:      name,
		Date:      date,
		Time:      tm,
	}
	if err := s.appointments.AppendAppointment(ctx, record); err != nil {
		s.metrics.SinkFailure("appointment")
		log.ErrorWithTraceID(log.Fields{
			"call_id":   callID,
			"slot_date": date,
			"slot_time": tm,
			"error":     response.Wrap(call.ErrAppointmentLog, err).Error(),
		}, "[callService.book] appointment not saved")
		return s.respond(call.SaveFailedText, call.OutcomeSaveFailed)
	}

	s.log.WithFields(log.Fields{
		"call_id":   callID,
		"name":      name,
		"slot_date": date,
		"slot_time": tm,
		"reason":    req.Reason,
	}).Info("Appointment booked")

	return s.respond(call.BookedText(date, tm), call.OutcomeBooked)
}

func (s *callService) answer(ctx context.Context, callID, question, answer string) *call.TurnResponse {
	if err := s.qa.AppendQA(ctx, entity.QARecord{Question: question, Answer: answer}); err != nil {
		s.metrics.SinkFailure("qa")
		log.ErrorWithTraceID(log.Fields{
			"call_id": callID,
			"error":   response.Wrap(call.ErrQALog, err).Error(),
		}, "[callService.answer] QA pair not logged")
	}

	return s.respond(answer, call.OutcomeAnswered)
}
