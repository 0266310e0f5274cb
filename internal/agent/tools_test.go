package agent

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedeargo/agend-citas/internal/directory"
	"github.com/fedeargo/agend-citas/internal/ledger"
	"github.com/fedeargo/agend-citas/internal/scheduling"
	"github.com/fedeargo/agend-citas/pkg/logging"
)

var fixedNow = func() time.Time {
	return time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
}

func newTestRegistry(t *testing.T) (*Registry, ledger.Ledger) {
	t.Helper()
	dir := directory.NewSeededStore()
	led := ledger.NewInMemoryLedger(dir)
	engine := scheduling.NewEngine(dir, led, fixedNow)
	booker := scheduling.NewBooker(engine, led, scheduling.NewLocalLocker(), logging.New("error"), fixedNow)

	r, err := NewSchedulingRegistry(ToolDeps{
		Directory: dir,
		Ledger:    led,
		Engine:    engine,
		Booker:    booker,
		Now:       fixedNow,
	})
	require.NoError(t, err)
	return r, led
}

func invoke(t *testing.T, r *Registry, name, args string) json.RawMessage {
	t.Helper()
	payload, err := r.Invoke(context.Background(), name, json.RawMessage(args))
	require.NoError(t, err)
	return payload
}

func TestListProvidersTool(t *testing.T) {
	r, _ := newTestRegistry(t)

	var providers []directory.Provider
	require.NoError(t, json.Unmarshal(invoke(t, r, "list_providers", `{}`), &providers))
	assert.Len(t, providers, 5)
}

func TestSearchSimilarSpecialtiesTool(t *testing.T) {
	r, _ := newTestRegistry(t)

	var matches []directory.Match
	require.NoError(t, json.Unmarshal(invoke(t, r, "search_similar_specialties", `{"query":"cardiolojia"}`), &matches))
	require.NotEmpty(t, matches)
	assert.Equal(t, "spec_2", matches[0].ID, "misspelled query still ranks Cardiología first")
}

func TestPractitionersForUnknownSpecialtyIsErrorPayload(t *testing.T) {
	r, _ := newTestRegistry(t)

	var out map[string]string
	require.NoError(t, json.Unmarshal(invoke(t, r, "practitioners_for_specialty", `{"specialty_id":"spec_99"}`), &out))
	assert.Contains(t, out["error"], "unknown specialty")
}

func TestSlotsForTool(t *testing.T) {
	r, _ := newTestRegistry(t)

	var out struct {
		AvailableHours []string `json:"available_hours"`
	}
	require.NoError(t, json.Unmarshal(invoke(t, r, "slots_for", `{"doctor_id":"doc_1","date":"2025-06-10"}`), &out))
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "14:00", "15:00"}, out.AvailableHours)
}

func TestBookAppointmentToolConfirmsAndRecords(t *testing.T) {
	r, led := newTestRegistry(t)

	args := `{"user_id":"u1","eps_id":"eps_1","specialty_id":"spec_1","doctor_id":"doc_1","date":"2025-06-10","time":"09:00"}`
	var appt ledger.EnrichedAppointment
	require.NoError(t, json.Unmarshal(invoke(t, r, "book_appointment", args), &appt))
	assert.Equal(t, ledger.StatusConfirmed, appt.Status)
	assert.Equal(t, "Dr. Juan Pérez", appt.PractitionerName)
	assert.Len(t, led.BySubject("u1"), 1)

	// Same slot again comes back as an error payload the model can relay.
	var out map[string]string
	require.NoError(t, json.Unmarshal(invoke(t, r, "book_appointment", args), &out))
	assert.NotEmpty(t, out["error"])
	assert.Len(t, led.BySubject("u1"), 1, "failed retry must not add a second record")
}

func TestDateTools(t *testing.T) {
	r, _ := newTestRegistry(t)

	var today, tomorrow map[string]string
	require.NoError(t, json.Unmarshal(invoke(t, r, "current_date", `{}`), &today))
	require.NoError(t, json.Unmarshal(invoke(t, r, "tomorrow_date", `{}`), &tomorrow))
	assert.Equal(t, "2025-06-09", today["date"])
	assert.Equal(t, "2025-06-10", tomorrow["date"])
}

func TestRegistryAdvertisesFullToolSet(t *testing.T) {
	r, _ := newTestRegistry(t)

	names := make([]string, 0)
	for _, spec := range r.Specs() {
		names = append(names, spec.Name)
	}
	assert.ElementsMatch(t, []string{
		"list_providers", "search_similar_providers",
		"list_specialties", "search_similar_specialties",
		"practitioners_for_specialty", "slots_for", "candidate_dates",
		"schedule_for", "book_appointment", "user_appointments",
		"current_date", "tomorrow_date",
	}, names)
}
