package pipeline

import (
	"fmt"
	"time"

	"github.com/JohnBasrai/aws-lambda-action-filter/pkg/models"
)

// Default scheduling windows, in days. The horizon bounds how far in the
// future a next_action_time may fall (inclusive); the cooldown bounds how
// recently the entity was last acted on (exclusive).
const (
	DefaultHorizonDays  = 90
	DefaultCooldownDays = 7
)

// Years representable on the wire. RFC 3339 timestamps carry four-digit
// years, so every decoded instant already sits inside this range; holding
// the reference time to the same range keeps the offset arithmetic in
// NewWindow far away from the edges of the time representation.
const (
	minYear = 0
	maxYear = 9999
)

// Window is the pair of admission bounds derived from one reference time.
type Window struct {
	NextBy     time.Time // latest admissible next_action_time, inclusive
	LastBefore time.Time // exclusive upper bound on last_action_time
}

// NewWindow computes the admission bounds for a reference time. The
// reference time is normalized to UTC first, so a day is always exactly
// twenty-four hours and the bounds come out the same no matter which zone
// the caller's clock reports. Day counts of zero select the defaults.
//
// A reference time whose year falls outside the representable range is
// rejected up front rather than risking wraparound deep inside the filter.
func NewWindow(now time.Time, horizonDays, cooldownDays int) (Window, error) {
	if horizonDays == 0 {
		horizonDays = DefaultHorizonDays
	}
	if cooldownDays == 0 {
		cooldownDays = DefaultCooldownDays
	}
	if horizonDays < 0 || cooldownDays < 0 {
		return Window{}, fmt.Errorf("window days must not be negative (horizon %d, cooldown %d)", horizonDays, cooldownDays)
	}

	now = now.UTC()
	if year := now.Year(); year < minYear || year > maxYear {
		return Window{}, fmt.Errorf("reference time year %d outside representable range [%04d, %04d]", year, minYear, maxYear)
	}

	return Window{
		NextBy:     now.AddDate(0, 0, horizonDays),
		LastBefore: now.AddDate(0, 0, -cooldownDays),
	}, nil
}

// Admits reports whether a record satisfies both bounds: due no later than
// NextBy, and last acted on strictly before LastBefore. A record due exactly
// at the horizon is admitted; one last acted on exactly at the cooldown
// boundary is not.
func (w Window) Admits(action models.Action) bool {
	return !action.NextActionTime.After(w.NextBy) && action.LastActionTime.Before(w.LastBefore)
}

// Filter keeps exactly the records the window admits, preserving their
// relative order.
func Filter(actions []models.Action, w Window) []models.Action {
	admitted := make([]models.Action, 0, len(actions))
	for _, action := range actions {
		if w.Admits(action) {
			admitted = append(admitted, action)
		}
	}
	return admitted
}
