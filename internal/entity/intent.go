package entity

type IntentKind string

const (
	IntentAppointment IntentKind = "appointment"
	IntentAnswer      IntentKind = "answer"
)

type AppointmentRequest struct {
	Name   string `json:"name,omitempty"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Reason string `json:"reason,omitempty"`
}

// Intent is either an appointment request or a plain answer, never both.
type Intent struct {
	Kind        IntentKind          `json:"kind"`
	Appointment *AppointmentRequest `json:"appointment,omitempty"`
	Answer      string              `json:"answer,omitempty"`
}

func NewAppointmentIntent(req AppointmentRequest) Intent {
	return Intent{Kind: IntentAppointment, Appointment: &req}
}

func NewAnswerIntent(text string) Intent {
	return Intent{Kind: IntentAnswer, Answer: text}
}
