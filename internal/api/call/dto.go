package call

// Relay frame types.
const (
	FrameSetup     = "setup"
	FramePrompt    = "prompt"
	FrameInterrupt = "interrupt"
	FrameDTMF      = "dtmf"
	FrameError     = "error"
	FrameText      = "text"
)

// InboundFrame is any message the relay sends over the websocket. Only the
// fields of the frame's type are set.
type InboundFrame struct {
	Type string `json:"type" validate:"required"`

	// setup
	RelaySessionID string `json:"sessionId,omitempty"`
	CallSid        string `json:"callSid,omitempty" validate:"required_if=Type setup"`
	From           string `json:"from,omitempty"`
	To             string `json:"to,omitempty"`
	Direction      string `json:"direction,omitempty"`

	// prompt
	VoicePrompt string `json:"voicePrompt,omitempty"`
	Lang        string `json:"lang,omitempty"`
	Last        bool   `json:"last,omitempty"`

	// interrupt
	UtteranceUntilInterrupt  string `json:"utteranceUntilInterrupt,omitempty"`
	DurationUntilInterruptMs int    `json:"durationUntilInterruptMs,omitempty" validate:"gte=0"`

	// dtmf
	Digit string `json:"digit,omitempty"`

	// error
	Description string `json:"description,omitempty"`
}

type OutboundTextFrame struct {
	Type  string `json:"type"`
	Token string `json:"token"`
	Last  bool   `json:"last"`
}

// NewTextFrame builds the single, final frame sent back for one prompt.
func NewTextFrame(text string) OutboundTextFrame {
	return OutboundTextFrame{Type: FrameText, Token: text, Last: true}
}

type SetupRequest struct {
	CallID         string
	RelaySessionID string
	From           string
	To             string
}

type InterruptNotice struct {
	UtteranceUntilInterrupt  string
	DurationUntilInterruptMs int
}

type Outcome string

const (
	OutcomeBooked     Outcome = "booked"
	OutcomeSlotTaken  Outcome = "slot_taken"
	OutcomeClarify    Outcome = "clarify"
	OutcomeAnswered   Outcome = "answered"
	OutcomeReprompt   Outcome = "reprompt"
	OutcomeSaveFailed Outcome = "save_failed"
	OutcomeError      Outcome = "error"
)

type TurnResponse struct {
	Text    string
	Outcome Outcome
}

// TwimlRequest is the subset of the voice webhook form that gets logged.
type TwimlRequest struct {
	CallSid   string `form:"CallSid"`
	Direction string `form:"Direction"`
}
