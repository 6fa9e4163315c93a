package call

import "fmt"

const (
	ClarifyText    = "I couldn't understand the appointment date or time. Please say something like 'book appointment for August 6th at 2 PM'."
	ApologyText    = "Sorry, an error occurred while processing your request. Please try again."
	SaveFailedText = "Sorry, I couldn't save your appointment right now. Please try again later."
	RepromptText   = "Sorry, I didn't catch that. Could you say it again?"
	UnknownName    = "Unknown"
)

func BookedText(date, time string) string {
	return fmt.Sprintf("Your appointment has been booked for %s at %s.", date, time)
}

func SlotTakenText(date, time string) string {
	return fmt.Sprintf("Sorry, the slot on %s at %s is already taken. Please choose another time.", date, time)
}
