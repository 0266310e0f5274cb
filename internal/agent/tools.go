package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fedeargo/agend-citas/internal/directory"
	"github.com/fedeargo/agend-citas/internal/ledger"
	"github.com/fedeargo/agend-citas/internal/observability/metrics"
	"github.com/fedeargo/agend-citas/internal/scheduling"
)

const dateLayout = "2006-01-02"

// ToolDeps carries the services the scheduling tools are built over.
type ToolDeps struct {
	Directory   directory.Store
	Ledger      ledger.Ledger
	Engine      *scheduling.Engine
	Booker      *scheduling.Booker
	Metrics     *metrics.AssistantMetrics
	HorizonDays int
	Now         func() time.Time
}

// NewSchedulingRegistry wires the full tool set the assistant needs to walk
// a user from "I need a cardiologist" to a confirmed appointment.
func NewSchedulingRegistry(deps ToolDeps) (*Registry, error) {
	if deps.Directory == nil || deps.Ledger == nil || deps.Engine == nil || deps.Booker == nil {
		return nil, errors.New("agent: directory, ledger, engine and booker are all required")
	}
	if deps.HorizonDays <= 0 {
		deps.HorizonDays = scheduling.DefaultHorizonDays
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	r := NewRegistry()

	queryParams := &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"query": {Type: "string", Description: "Free-text name to match against"},
		},
		Required: []string{"query"},
	}

	r.MustRegister(Tool{
		Name:        "list_providers",
		Description: "List every health provider (EPS) the service covers, with ids and names.",
		Parameters:  &Schema{Type: "object"},
		Run: func(ctx context.Context, _ json.RawMessage) (any, error) {
			return deps.Directory.Providers(), nil
		},
	})

	r.MustRegister(Tool{
		Name:        "search_similar_providers",
		Description: "Find the health providers whose names are closest to a possibly misspelled query.",
		Parameters:  queryParams,
		Run: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				Query string `json:"query"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			return deps.Directory.SimilarProviders(in.Query, 3), nil
		},
	})

	r.MustRegister(Tool{
		Name:        "list_specialties",
		Description: "List every medical specialty available for booking, with ids and descriptions.",
		Parameters:  &Schema{Type: "object"},
		Run: func(ctx context.Context, _ json.RawMessage) (any, error) {
			return deps.Directory.Specialties(), nil
		},
	})

	r.MustRegister(Tool{
		Name:        "search_similar_specialties",
		Description: "Find the specialties whose names are closest to a possibly misspelled query.",
		Parameters:  queryParams,
		Run: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				Query string `json:"query"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			return deps.Directory.SimilarSpecialties(in.Query, 3), nil
		},
	})

	r.MustRegister(Tool{
		Name:        "practitioners_for_specialty",
		Description: "List the doctors attending a given specialty id.",
		Parameters: &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"specialty_id": {Type: "string", Description: "Specialty id, e.g. spec_1"},
			},
			Required: []string{"specialty_id"},
		},
		Run: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				SpecialtyID string `json:"specialty_id"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if _, ok := deps.Directory.SpecialtyByID(in.SpecialtyID); !ok {
				return nil, fmt.Errorf("unknown specialty %q", in.SpecialtyID)
			}
			return deps.Directory.PractitionersBySpecialty(in.SpecialtyID), nil
		},
	})

	r.MustRegister(Tool{
		Name:        "slots_for",
		Description: "List the free time slots of a doctor on a given date (YYYY-MM-DD).",
		Parameters: &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"doctor_id": {Type: "string", Description: "Doctor id, e.g. doc_1"},
				"date":      {Type: "string", Description: "Date in YYYY-MM-DD format"},
			},
			Required: []string{"doctor_id", "date"},
		},
		Run: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				DoctorID string `json:"doctor_id"`
				Date     string `json:"date"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if _, err := time.Parse(dateLayout, in.Date); err != nil {
				return nil, fmt.Errorf("date %q is not in YYYY-MM-DD format", in.Date)
			}
			return map[string]any{
				"doctor_id":       in.DoctorID,
				"date":            in.Date,
				"available_hours": deps.Engine.SlotsFor(in.DoctorID, in.Date),
			}, nil
		},
	})

	r.MustRegister(Tool{
		Name:        "candidate_dates",
		Description: "List the upcoming dates on which a doctor still has free slots.",
		Parameters: &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"doctor_id": {Type: "string", Description: "Doctor id, e.g. doc_1"},
			},
			Required: []string{"doctor_id"},
		},
		Run: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				DoctorID string `json:"doctor_id"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			return map[string]any{
				"doctor_id": in.DoctorID,
				"dates":     deps.Engine.CandidateDates(in.DoctorID, deps.HorizonDays),
			}, nil
		},
	})

	r.MustRegister(Tool{
		Name:        "schedule_for",
		Description: "Full upcoming availability for a specialty: every doctor with their free dates and hours.",
		Parameters: &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"specialty_id": {Type: "string", Description: "Specialty id, e.g. spec_1"},
			},
			Required: []string{"specialty_id"},
		},
		Run: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				SpecialtyID string `json:"specialty_id"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			return deps.Engine.ScheduleFor(in.SpecialtyID, deps.HorizonDays), nil
		},
	})

	r.MustRegister(Tool{
		Name:        "book_appointment",
		Description: "Confirm an appointment once the user has chosen provider, specialty, doctor, date and time. Ask for explicit confirmation before calling this.",
		Parameters: &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"user_id":      {Type: "string", Description: "The user identifier given in the instructions"},
				"eps_id":       {Type: "string", Description: "Health provider id, e.g. eps_1"},
				"specialty_id": {Type: "string", Description: "Specialty id, e.g. spec_1"},
				"doctor_id":    {Type: "string", Description: "Doctor id, e.g. doc_1"},
				"date":         {Type: "string", Description: "Date in YYYY-MM-DD format"},
				"time":         {Type: "string", Description: "Time slot in HH:MM format, e.g. 09:00"},
			},
			Required: []string{"user_id", "eps_id", "specialty_id", "doctor_id", "date", "time"},
		},
		Run: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				UserID      string `json:"user_id"`
				EPSID       string `json:"eps_id"`
				SpecialtyID string `json:"specialty_id"`
				DoctorID    string `json:"doctor_id"`
				Date        string `json:"date"`
				Time        string `json:"time"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			appt, err := deps.Booker.Book(ctx, in.UserID, in.EPSID, in.SpecialtyID, in.DoctorID, in.Date, in.Time)
			if err != nil {
				deps.Metrics.ObserveBooking(bookingOutcome(err))
				return nil, err
			}
			deps.Metrics.ObserveBooking("confirmed")
			return appt, nil
		},
	})

	r.MustRegister(Tool{
		Name:        "user_appointments",
		Description: "List the appointments already booked by a user.",
		Parameters: &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"user_id": {Type: "string", Description: "The user identifier given in the instructions"},
			},
			Required: []string{"user_id"},
		},
		Run: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				UserID string `json:"user_id"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			return deps.Ledger.BySubject(in.UserID), nil
		},
	})

	r.MustRegister(Tool{
		Name:        "current_date",
		Description: "Today's date in YYYY-MM-DD format.",
		Parameters:  &Schema{Type: "object"},
		Run: func(ctx context.Context, _ json.RawMessage) (any, error) {
			return map[string]string{"date": deps.Now().Format(dateLayout)}, nil
		},
	})

	r.MustRegister(Tool{
		Name:        "tomorrow_date",
		Description: "Tomorrow's date in YYYY-MM-DD format.",
		Parameters:  &Schema{Type: "object"},
		Run: func(ctx context.Context, _ json.RawMessage) (any, error) {
			return map[string]string{"date": deps.Now().AddDate(0, 0, 1).Format(dateLayout)}, nil
		},
	})

	return r, nil
}

func bookingOutcome(err error) string {
	switch {
	case errors.Is(err, scheduling.ErrSlotUnavailable):
		return "slot_unavailable"
	case errors.Is(err, scheduling.ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, scheduling.ErrSlotContended):
		return "contended"
	default:
		return "error"
	}
}
