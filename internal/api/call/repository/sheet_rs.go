package callRepository

import (
	"context"
	"fmt"
	"time"

	"CallAgent/internal/entity"
	"CallAgent/pkg/google"
	"CallAgent/pkg/log"

	"github.com/sirupsen/logrus"
)

type SheetLog struct {
	sheets         google.ISheets
	appointmentTab string
	qaTab          string
	log            *logrus.Logger
}

// NewSheetLog writes appointments and QA pairs as rows of two tabs of the
// same spreadsheet.
func NewSheetLog(sheets google.ISheets, appointmentTab, qaTab string, logger *logrus.Logger) *SheetLog {
	return &SheetLog{
		sheets:         sheets,
		appointmentTab: appointmentTab,
		qaTab:          qaTab,
		log:            logger,
	}
}

func (s *SheetLog) AppendAppointment(ctx context.Context, record entity.AppointmentRecord) error {
	if err := s.sheets.AppendRow(ctx, s.appointmentTab, record.Row()); err != nil {
		return err
	}

	s.log.WithFields(log.Fields{
		"tab":       s.appointmentTab,
		"name":      record.Name,
		"slot_date": record.Date,
		"slot_time": record.Time,
	}).Info("Appointment logged")
	return nil
}

func (s *SheetLog) AppendQA(ctx context.Context, record entity.QARecord) error {
	if err := s.sheets.AppendRow(ctx, s.qaTab, record.Row()); err != nil {
		return err
	}

	s.log.WithFields(log.Fields{
		"tab": s.qaTab,
	}).Debug("QA pair logged")
	return nil
}

// ListAppointments reads every appointment row back. Rows that are too short,
// such as a header or a blank line, are skipped.
func (s *SheetLog) ListAppointments(ctx context.Context) ([]entity.AppointmentRecord, error) {
	rows, err := s.sheets.ReadRows(ctx, s.appointmentTab)
	if err != nil {
		return nil, err
	}

	records := make([]entity.AppointmentRecord, 0, len(rows))
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}

		record := entity.AppointmentRecord{
			Name: cell(row[1]),
			Date: cell(row[2]),
			Time: cell(row[3]),
		}
		if ts, err := time.Parse(time.RFC3339, cell(row[0])); err == nil {
			record.Timestamp = ts
		}
		records = append(records, record)
	}

	return records, nil
}

func cell(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
