package ledger

import "time"

// Status tracks the lifecycle of an appointment. Only confirmed is reachable
// today; cancelled and rescheduled are reserved for future transitions.
type Status string

const (
	StatusConfirmed   Status = "confirmed"
	StatusCancelled   Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
)

// Appointment is a committed booking. Records are append-only: once written
// they are never mutated.
type Appointment struct {
	ID             string    `json:"id"`
	SubjectID      string    `json:"user_id"`
	ProviderID     string    `json:"eps_id"`
	SpecialtyID    string    `json:"specialty_id"`
	PractitionerID string    `json:"doctor_id"`
	Date           string    `json:"date"` // YYYY-MM-DD
	Time           string    `json:"time"` // HH:MM
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// EnrichedAppointment carries the resolved display names alongside the
// record. Enrichment happens at read time; the names are never stored.
type EnrichedAppointment struct {
	Appointment
	ProviderName     string `json:"eps_name"`
	SpecialtyName    string `json:"specialty_name"`
	PractitionerName string `json:"doctor_name"`
}
