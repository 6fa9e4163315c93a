package nlp

import (
	"regexp"
	"strconv"
	"strings"

	"CallAgent/internal/entity"

	jsoniter "github.com/json-iterator/go"
)

const emptyAnswerText = "I'm sorry, I don't have an answer to that."

var (
	json       = jsoniter.ConfigCompatibleWithStandardLibrary
	fenceRegex = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
)

// ParseIntent reads a model reply as strict JSON. Anything that is not a JSON
// object becomes an answer carrying the reply text. Only an empty reply is an error.
func ParseIntent(raw string) (entity.Intent, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return entity.Intent{}, ErrEmptyReply
	}

	body := text
	if m := fenceRegex.FindStringSubmatch(text); m != nil {
		body = m[1]
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(body), &fields); err != nil || fields == nil {
		return entity.NewAnswerIntent(text), nil
	}

	answer := field(fields, "answer")

	switch strings.ToLower(field(fields, "type")) {
	case "appointment", "booking":
		return entity.NewAppointmentIntent(entity.AppointmentRequest{
			Name:   field(fields, "name"),
			Date:   field(fields, "date"),
			Time:   field(fields, "time"),
			Reason: field(fields, "reason"),
		}), nil
	case "qa", "answer":
		if answer == "" {
			answer = emptyAnswerText
		}
		return entity.NewAnswerIntent(answer), nil
	default:
		if answer != "" {
			return entity.NewAnswerIntent(answer), nil
		}
		return entity.NewAnswerIntent(text), nil
	}
}

func field(fields map[string]interface{}, key string) string {
	switch v := fields[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
