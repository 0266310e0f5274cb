package ledger

import (
	"sync"

	"github.com/fedeargo/agend-citas/internal/directory"
)

// Ledger is the append-only collection of committed appointments.
type Ledger interface {
	Append(appt Appointment)
	BySubject(subjectID string) []EnrichedAppointment
	ConfirmedTimes(practitionerID, date string) []string
	Enrich(appt Appointment) EnrichedAppointment
}

// InMemoryLedger keeps appointments in process memory, guarded for
// concurrent booking requests. Reads enrich from the directory every time.
type InMemoryLedger struct {
	mu           sync.RWMutex
	appointments []Appointment
	dir          directory.Store
}

// NewInMemoryLedger creates an empty ledger backed by the given directory.
func NewInMemoryLedger(dir directory.Store) *InMemoryLedger {
	return &InMemoryLedger{dir: dir}
}

// Append records a committed appointment. The booking service is the only
// caller and performs all validation beforehand.
func (l *InMemoryLedger) Append(appt Appointment) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.appointments = append(l.appointments, appt)
}

// BySubject returns the subject's appointments in append order, enriched
// with resolved display names. Dangling references resolve to empty names.
func (l *InMemoryLedger) BySubject(subjectID string) []EnrichedAppointment {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []EnrichedAppointment
	for _, appt := range l.appointments {
		if appt.SubjectID != subjectID {
			continue
		}
		out = append(out, l.enrich(appt))
	}
	return out
}

// ConfirmedTimes returns the times already claimed by confirmed appointments
// for a practitioner on a date.
func (l *InMemoryLedger) ConfirmedTimes(practitionerID, date string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []string
	for _, appt := range l.appointments {
		if appt.PractitionerID == practitionerID && appt.Date == date && appt.Status == StatusConfirmed {
			out = append(out, appt.Time)
		}
	}
	return out
}

// Enrich resolves display names for a single appointment.
func (l *InMemoryLedger) Enrich(appt Appointment) EnrichedAppointment {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enrich(appt)
}

func (l *InMemoryLedger) enrich(appt Appointment) EnrichedAppointment {
	enriched := EnrichedAppointment{Appointment: appt}
	if p, ok := l.dir.ProviderByID(appt.ProviderID); ok {
		enriched.ProviderName = p.Name
	}
	if s, ok := l.dir.SpecialtyByID(appt.SpecialtyID); ok {
		enriched.SpecialtyName = s.Name
	}
	if d, ok := l.dir.PractitionerByID(appt.PractitionerID); ok {
		enriched.PractitionerName = d.Name
	}
	return enriched
}
