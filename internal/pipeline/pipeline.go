// Package pipeline implements the action transformation pipeline: collapse
// duplicate entities, drop records outside the scheduling windows, and order
// what survives by priority. Every stage is a pure function from one slice to
// a new slice, with no clock reads, no logging, and no state between
// invocations, which is what makes concurrent invocations safe without locking.
package pipeline

import (
	"time"

	"github.com/JohnBasrai/aws-lambda-action-filter/pkg/models"
)

// Process runs the three stages in their fixed order (dedupe, then filter,
// then sort) against a single reference time. The order matters:
// deduplication is applied before the windows, so an entity whose last-seen
// record fails the windows is gone even when an earlier record for the same
// entity would have passed. Day counts of zero select the defaults.
//
// The only error is an unrepresentable reference time; for any in-range
// reference time and any decoded input the pipeline is total.
func Process(actions []models.Action, now time.Time, horizonDays, cooldownDays int) ([]models.Action, error) {
	w, err := NewWindow(now, horizonDays, cooldownDays)
	if err != nil {
		return nil, err
	}
	return SortByPriority(Filter(Dedupe(actions), w)), nil
}
