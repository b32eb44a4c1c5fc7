// Package decode turns wire-format JSON batches into validated actions ready
// for the pipeline. Validation is strict and fails the whole batch: a single
// malformed record means the upstream producer is broken, and a silently
// partial result would hide that.
package decode

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JohnBasrai/aws-lambda-action-filter/pkg/models"
)

// Field-level validation failures. A RecordError wraps one of these, so
// callers can pick the failure class out with errors.Is.
var (
	ErrMissingEntityID    = errors.New("missing entity_id")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	ErrInvalidPriority    = errors.New("invalid priority")
)

// RawAction is one record exactly as it appears on the wire: every field a
// string, nothing validated yet.
type RawAction struct {
	EntityID       string `json:"entity_id"`
	LastActionTime string `json:"last_action_time"`
	NextActionTime string `json:"next_action_time"`
	Priority       string `json:"priority"`
}

// RecordError identifies the record and field that failed validation.
type RecordError struct {
	Index    int    // position in the batch, zero-based
	EntityID string // empty when the id itself is what's missing
	Field    string
	Err      error
}

func (e *RecordError) Error() string {
	if e.EntityID == "" {
		return fmt.Sprintf("record %d: %s: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("record %d (entity %q): %s: %v", e.Index, e.EntityID, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Batch decodes a JSON array of wire records into validated actions. A body
// that is not a JSON array fails outright; a record that fails validation
// aborts the batch with a RecordError naming it. A JSON null is treated as
// an empty batch.
func Batch(data []byte) ([]models.Action, error) {
	var raw []RawAction
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding action batch: %w", err)
	}
	return Records(raw)
}

// Records validates wire records in order and stops at the first failure.
// Timestamps are normalized to UTC, so downstream comparisons and
// re-encoding always work from one canonical zone regardless of the offsets
// the producer wrote.
func Records(raw []RawAction) ([]models.Action, error) {
	actions := make([]models.Action, 0, len(raw))
	for i, r := range raw {
		action, err := record(i, r)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}

func record(index int, raw RawAction) (models.Action, error) {
	if raw.EntityID == "" {
		return models.Action{}, &RecordError{Index: index, Field: "entity_id", Err: ErrMissingEntityID}
	}

	last, err := timestamp(raw.LastActionTime)
	if err != nil {
		return models.Action{}, &RecordError{Index: index, EntityID: raw.EntityID, Field: "last_action_time", Err: err}
	}

	next, err := timestamp(raw.NextActionTime)
	if err != nil {
		return models.Action{}, &RecordError{Index: index, EntityID: raw.EntityID, Field: "next_action_time", Err: err}
	}

	priority, err := models.ParsePriority(raw.Priority)
	if err != nil {
		return models.Action{}, &RecordError{Index: index, EntityID: raw.EntityID, Field: "priority", Err: fmt.Errorf("%w: %v", ErrInvalidPriority, err)}
	}

	return models.Action{
		EntityID:       raw.EntityID,
		LastActionTime: last,
		NextActionTime: next,
		Priority:       priority,
	}, nil
}

// timestamp parses an RFC 3339 instant. The four-digit year in the format
// means anything outside years 0000 through 9999 cannot parse at all, so an
// out-of-range instant surfaces here as a malformed timestamp rather than
// ever reaching the window arithmetic.
func timestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrMalformedTimestamp)
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedTimestamp, err)
	}
	return t.UTC(), nil
}
