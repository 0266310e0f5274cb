package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fedeargo/agend-citas/internal/ledger"
	"github.com/fedeargo/agend-citas/pkg/logging"
)

var bookingTracer = otel.Tracer("agendcitas.internal.scheduling")

// Booker validates and commits appointments against the availability engine.
type Booker struct {
	engine *Engine
	ledger ledger.Ledger
	locker Locker
	logger *logging.Logger
	now    func() time.Time
}

// NewBooker constructs a booking service. now is injectable for tests; nil
// means time.Now.
func NewBooker(engine *Engine, l ledger.Ledger, locker Locker, logger *logging.Logger, now func() time.Time) *Booker {
	if locker == nil {
		locker = NewLocalLocker()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Booker{engine: engine, ledger: l, locker: locker, logger: logger, now: now}
}

// Book commits a single appointment. Availability is re-checked inside a
// per-(practitioner, date) critical section so two callers cannot both
// observe the slot as free; the check and the append are one unit.
func (b *Booker) Book(ctx context.Context, subjectID, providerID, specialtyID, practitionerID, date, slot string) (*ledger.EnrichedAppointment, error) {
	ctx, span := bookingTracer.Start(ctx, "scheduling.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("agendcitas.practitioner_id", practitionerID),
		attribute.String("agendcitas.date", date),
	)

	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	var booked *ledger.Appointment

	key := fmt.Sprintf("%s:%s", practitionerID, date)
	err := b.locker.WithLock(ctx, key, func(ctx context.Context) error {
		free := false
		for _, s := range b.engine.SlotsFor(practitionerID, date) {
			if s == slot {
				free = true
				break
			}
		}
		if !free {
			return fmt.Errorf("%w: %s %s %s", ErrSlotUnavailable, practitionerID, date, slot)
		}

		appt := ledger.Appointment{
			ID:             uuid.New().String(),
			SubjectID:      subjectID,
			ProviderID:     providerID,
			SpecialtyID:    specialtyID,
			PractitionerID: practitionerID,
			Date:           date,
			Time:           slot,
			Status:         ledger.StatusConfirmed,
			CreatedAt:      b.now().UTC(),
		}
		b.ledger.Append(appt)
		booked = &appt
		return nil
	})
	if err != nil {
		if errors.Is(err, errLockNotAcquired) {
			return nil, ErrSlotContended
		}
		span.RecordError(err)
		return nil, err
	}

	enriched := b.ledger.Enrich(*booked)
	b.logger.Info("appointment booked",
		"appointment_id", booked.ID,
		"subject_id", subjectID,
		"practitioner_id", practitionerID,
		"date", date,
		"time", slot,
	)
	return &enriched, nil
}
