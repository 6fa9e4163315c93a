package callService

import (
	"context"

	callRepository "CallAgent/internal/api/call/repository"
	"CallAgent/pkg/nlp"
)

type IAvailabilityChecker interface {
	Check(ctx context.Context, date, time string) (bool, error)
}

type alwaysAvailable struct{}

// NewAlwaysAvailable accepts every slot.
func NewAlwaysAvailable() IAvailabilityChecker {
	return alwaysAvailable{}
}

func (alwaysAvailable) Check(context.Context, string, string) (bool, error) {
	return true, nil
}

type bookedSlotChecker struct {
	appointments callRepository.AppointmentLog
}

// NewBookedSlotChecker reports a slot as taken when an appointment already
// logged has the same date and time once both are normalized. No timezone is
// applied and neighbouring times do not conflict.
func NewBookedSlotChecker(appointments callRepository.AppointmentLog) IAvailabilityChecker {
	return &bookedSlotChecker{appointments: appointments}
}

func (c *bookedSlotChecker) Check(ctx context.Context, date, time string) (bool, error) {
	wantDate, err := nlp.NormalizeDate(date)
	if err != nil {
		return false, err
	}
	wantTime, err := nlp.NormalizeTime(time)
	if err != nil {
		return false, err
	}

	records, err := c.appointments.ListAppointments(ctx)
	if err != nil {
		return false, err
	}

	for _, r := range records {
		d, err := nlp.NormalizeDate(r.Date)
		if err != nil {
			continue
		}
		t, err := nlp.NormalizeTime(r.Time)
		if err != nil {
			continue
		}
		if d == wantDate && t == wantTime {
			return false, nil
		}
	}

	return true, nil
}
