package scheduling

import (
	"time"

	"github.com/fedeargo/agend-citas/internal/directory"
	"github.com/fedeargo/agend-citas/internal/ledger"
)

const dateLayout = "2006-01-02"

// DefaultHorizonDays is how far ahead availability searches look when the
// caller does not say.
const DefaultHorizonDays = 7

// DateSlots pairs a date with the free times on it.
type DateSlots struct {
	Date  string   `json:"date"`
	Slots []string `json:"available_hours"`
}

// PractitionerSchedule is one practitioner's availability over a horizon.
type PractitionerSchedule struct {
	PractitionerID   string      `json:"doctor_id"`
	PractitionerName string      `json:"doctor_name"`
	Dates            []DateSlots `json:"available_dates"`
}

// Engine derives availability from the directory and the ledger. Results are
// recomputed on every call; nothing is cached, so a committed booking is
// visible to the next query immediately.
type Engine struct {
	dir    directory.Store
	ledger ledger.Ledger
	now    func() time.Time
}

// NewEngine creates an availability engine. now is injectable for tests;
// nil means time.Now.
func NewEngine(dir directory.Store, l ledger.Ledger, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{dir: dir, ledger: l, now: now}
}

// SlotsFor returns the practitioner's free times on a date: the canonical
// slot set minus times claimed by confirmed appointments, canonical order
// preserved. Unknown practitioners yield an empty result.
func (e *Engine) SlotsFor(practitionerID, date string) []string {
	practitioner, ok := e.dir.PractitionerByID(practitionerID)
	if !ok {
		return nil
	}

	taken := make(map[string]struct{})
	for _, t := range e.ledger.ConfirmedTimes(practitionerID, date) {
		taken[t] = struct{}{}
	}

	var free []string
	for _, slot := range practitioner.Slots {
		if _, claimed := taken[slot]; !claimed {
			free = append(free, slot)
		}
	}
	return free
}

// CandidateDates returns the dates within the horizon (tomorrow through
// horizonDays ahead) on which the practitioner has at least one free slot.
func (e *Engine) CandidateDates(practitionerID string, horizonDays int) []string {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	var dates []string
	for i := 1; i <= horizonDays; i++ {
		date := e.now().AddDate(0, 0, i).Format(dateLayout)
		if len(e.SlotsFor(practitionerID, date)) > 0 {
			dates = append(dates, date)
		}
	}
	return dates
}

// ScheduleFor returns, for every practitioner under the specialty, their
// candidate dates with free slots. Practitioners with no availability in the
// horizon are omitted entirely.
func (e *Engine) ScheduleFor(specialtyID string, horizonDays int) []PractitionerSchedule {
	var out []PractitionerSchedule
	for _, practitioner := range e.dir.PractitionersBySpecialty(specialtyID) {
		schedule := PractitionerSchedule{
			PractitionerID:   practitioner.ID,
			PractitionerName: practitioner.Name,
		}
		for _, date := range e.CandidateDates(practitioner.ID, horizonDays) {
			schedule.Dates = append(schedule.Dates, DateSlots{
				Date:  date,
				Slots: e.SlotsFor(practitioner.ID, date),
			})
		}
		if len(schedule.Dates) > 0 {
			out = append(out, schedule)
		}
	}
	return out
}
