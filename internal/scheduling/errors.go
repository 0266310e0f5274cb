package scheduling

import "errors"

var (
	// ErrSlotUnavailable is returned when the requested time is not free for
	// the practitioner on that date. The only domain error booking raises.
	ErrSlotUnavailable = errors.New("scheduling: slot unavailable")

	// ErrInvalidDate is returned for dates not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("scheduling: invalid date")

	// ErrSlotContended is returned when the per-slot lock could not be
	// acquired; callers may retry.
	ErrSlotContended = errors.New("scheduling: slot is being booked, retry")
)
