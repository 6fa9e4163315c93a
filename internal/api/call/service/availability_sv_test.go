package callService

import (
	"context"
	"testing"
	"time"

	"CallAgent/internal/api/call"
	callRepository "CallAgent/internal/api/call/repository"
	"CallAgent/internal/entity"
	"CallAgent/pkg/metrics"
	"CallAgent/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func TestAlwaysAvailable(t *testing.T) {
	ok, err := NewAlwaysAvailable().Check(context.Background(), "2025-08-06", "2:00 PM")
	if err != nil || !ok {
		t.Fatalf("got %v, %v", ok, err)
	}
}

func TestBookedSlotChecker(t *testing.T) {
	logs := &fakeLogs{appointments: []entity.AppointmentRecord{
		{Name: "Dana", Date: "2025-08-06", Time: "2:00 PM"},
		{Name: "Header", Date: "Date", Time: "Time"},
	}}
	checker := NewBookedSlotChecker(logs)

	tests := []struct {
		date, time string
		want       bool
	}{
		{"2025-08-06", "2:00 PM", false},
		{"2025-08-06", "14:00", false},
		{"August 6, 2025", "2 pm", false},
		{"2025-08-06", "3:00 PM", true},
		{"2025-08-07", "2:00 PM", true},
	}

	for _, tt := range tests {
		got, err := checker.Check(context.Background(), tt.date, tt.time)
		if err != nil {
			t.Fatalf("check(%s, %s): %v", tt.date, tt.time, err)
		}
		if got != tt.want {
			t.Errorf("check(%s, %s) = %v, want %v", tt.date, tt.time, got, tt.want)
		}
	}
}

func TestBookedSlotCheckerRejectsUnparseable(t *testing.T) {
	checker := NewBookedSlotChecker(&fakeLogs{})
	for _, date := range []string{"someday", "Aug 6", "2025"} {
		if _, err := checker.Check(context.Background(), date, "2 PM"); err == nil {
			t.Errorf("check(%s): expected error", date)
		}
	}
}

func TestPromptDoesNotDoubleBookSheetSlot(t *testing.T) {
	logs := &fakeLogs{appointments: []entity.AppointmentRecord{
		{Name: "Dana", Date: "2025-08-06", Time: "14:00"},
	}}
	extractor := &fakeExtractor{}
	svc := New(logrus.New(), callRepository.NewMemorySessionStore(time.Hour), extractor,
		NewBookedSlotChecker(logs), logs, logs, utils.New(), metrics.New(prometheus.NewRegistry()))
	ctx := context.Background()

	if _, err := svc.Setup(ctx, call.SetupRequest{CallID: "CA1"}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tests := []struct {
		date    string
		outcome call.Outcome
	}{
		{"Aug 6", call.OutcomeClarify},
		{"August 6, 2025", call.OutcomeSlotTaken},
	}

	for _, tt := range tests {
		extractor.result = appointment("Lee", tt.date, "2 PM")
		res, err := svc.Prompt(ctx, "CA1", "book "+tt.date+" at 2 PM")
		if err != nil {
			t.Fatalf("prompt(%s): %v", tt.date, err)
		}
		if res.Outcome != tt.outcome {
			t.Errorf("prompt(%s) outcome = %s, want %s", tt.date, res.Outcome, tt.outcome)
		}
	}

	if len(logs.appointments) != 1 {
		t.Fatalf("slot booked twice: %+v", logs.appointments)
	}
}
