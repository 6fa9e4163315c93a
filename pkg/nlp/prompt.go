package nlp

import (
	"fmt"
	"time"
)

const SystemInstruction = `You are a helpful and friendly voice assistant. This conversation is happening over a phone call, so your responses will be spoken aloud.
Please follow these rules:
1. Provide clear, concise, and direct answers.
2. Spell out all numbers (e.g., say 'one thousand two hundred' instead of 1200).
3. Avoid special characters like asterisks, bullet points, or emojis.
4. Keep the tone natural and conversational.`

const intentTemplate = `You will extract structured appointment info from the text if it's related to booking.
Today's date is %s.
Reply ONLY in JSON format:

{
  "type": "appointment",
  "name": "John Doe",
  "date": "2025-08-04",
  "time": "2:00 PM",
  "reason": "checkup"
}

Use an empty string for any field the caller did not give. Write the date as YYYY-MM-DD.

If the user is not booking, reply:

{ "type": "qa", "answer": "..." }

User said: %s
`

func BuildPrompt(utterance string, today time.Time) string {
	return fmt.Sprintf(intentTemplate, today.Format("2006-01-02 (Monday)"), utterance)
}
