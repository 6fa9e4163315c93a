package call

import "CallAgent/pkg/response"

var (
	ErrSessionNotFound   = response.NewError(404, "call session not found")
	ErrSessionClosed     = response.NewError(410, "call session closed before the turn finished")
	ErrMissingCallSid    = response.NewError(400, "setup frame without callSid")
	ErrInvalidFrame      = response.NewError(400, "invalid relay frame")
	ErrSessionStore      = response.NewError(500, "session store failure")
	ErrIntentExtraction  = response.NewError(502, "failed to extract intent")
	ErrAvailabilityCheck = response.NewError(502, "failed to check slot availability")
	ErrAppointmentLog    = response.NewError(502, "failed to log appointment")
	ErrQALog             = response.NewError(502, "failed to log question and answer")
	ErrTwimlBuild        = response.NewError(500, "failed to build twiml")
)
