package conversation

import (
	"fmt"
	"strings"

	"github.com/carebook/appointment-platform/internal/appointments"
	"github.com/carebook/appointment-platform/internal/doctors"
)

// Prompt builders are deterministic: an invalid selection re-issues the
// exact same option list, so a confused user sees a stable menu.

func numberedList(options []string) string {
	var b strings.Builder
	for i, opt := range options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
	}
	return b.String()
}

func symptomsPrompt() string {
	return "Hi! I can help you book an appointment. Please describe your symptoms."
}

func symptomsRetryPrompt(specialty string) string {
	return fmt.Sprintf("I couldn't find any %s doctors right now. Could you describe your symptoms differently?", specialty)
}

func locationPrompt(specialty string, locations []string) string {
	return fmt.Sprintf("Based on your symptoms, I recommend seeing a %s specialist.\nWhich location works best for you?\n%s",
		specialty, numberedList(locations))
}

func locationRetryPrompt(locations []string) string {
	return "I didn't recognize that location. Please choose one of:\n" + numberedList(locations)
}

func datePrompt() string {
	return "Great! What date would you like? Please use YYYY-MM-DD format (e.g. 2025-03-15)."
}

func dateRetryPrompt(minDate, maxDate string) string {
	return fmt.Sprintf("Please enter a valid date between %s and %s in YYYY-MM-DD format.", minDate, maxDate)
}

func timePrompt(date string) string {
	return fmt.Sprintf("Available time slots for %s:\n%s", date, numberedList(slotCatalog))
}

func timeRetryPrompt() string {
	return "I didn't recognize that time slot. Please choose one of:\n" + numberedList(slotCatalog)
}

func allBookedPrompt(date string) string {
	return fmt.Sprintf("All doctors are booked for that slot on %s. Please pick a different slot:\n%s",
		date, numberedList(slotCatalog))
}

func reasonPrompt(d doctors.Doctor) string {
	return fmt.Sprintf("You'll be seeing Dr. %s (%s, rated %.1f). Finally, what is the reason for your visit?",
		d.Name, d.Specialty, d.Rating)
}

func reasonRetryPrompt() string {
	return "Please give a brief reason for your visit (at least a few characters)."
}

func confirmationReply(appt *appointments.Appointment, doctorName string) string {
	return fmt.Sprintf(
		"Your appointment is confirmed!\nAppointment #%d with Dr. %s\nDate: %s\nTime: %s - %s\nStatus: %s",
		appt.ID, doctorName, appt.Date, appt.Start, appt.End, appt.Status)
}

const (
	conflictReply = "Sorry, that time slot was just taken by someone else. Please start over to pick another slot."
	notFoundReply = "We couldn't complete your booking because your account details were not found. Please start over."
	genericReply  = "Something went wrong while booking your appointment. Please start over."
)
