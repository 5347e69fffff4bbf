package service

import "errors"

// Failure classes surfaced to the HTTP layer. Handlers translate these with
// errors.Is; everything else maps to an internal error.
var (
	// ErrNotFound covers region/charger/period identities that do not resolve.
	ErrNotFound = errors.New("not found")

	// ErrScheduleUnavailable is returned when a charger's price status is
	// PENDING: a pricing update is in flight and the schedule must not be
	// served.
	ErrScheduleUnavailable = errors.New("pricing schedule under maintenance")

	// ErrScheduleIncomplete signals a data-integrity gap: an operational
	// charger with zero periods, or no period covering the current instant.
	// A well-formed schedule tiles the full day, so this is never a normal
	// empty result.
	ErrScheduleIncomplete = errors.New("pricing schedule incomplete")

	// ErrValidation covers malformed patch or query inputs.
	ErrValidation = errors.New("validation failed")
)
