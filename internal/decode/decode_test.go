package decode

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnBasrai/aws-lambda-action-filter/pkg/models"
)

func TestBatch(t *testing.T) {
	payload := `[
		{"entity_id": "pay-invoice", "last_action_time": "2026-02-01T09:30:00Z", "next_action_time": "2026-04-01T09:30:00Z", "priority": "urgent"},
		{"entity_id": "send-newsletter", "last_action_time": "2026-01-15T00:00:00+05:30", "next_action_time": "2026-03-20T12:00:00.250Z", "priority": "normal"}
	]`

	actions, err := Batch([]byte(payload))
	require.NoError(t, err)
	require.Len(t, actions, 2)

	assert.Equal(t, "pay-invoice", actions[0].EntityID)
	assert.Equal(t, models.PriorityUrgent, actions[0].Priority)
	assert.Equal(t, time.Date(2026, time.February, 1, 9, 30, 0, 0, time.UTC), actions[0].LastActionTime)

	// Offsets are honored, then the instant is normalized to UTC.
	assert.Equal(t, time.Date(2026, time.January, 14, 18, 30, 0, 0, time.UTC), actions[1].LastActionTime)
	assert.Equal(t, time.UTC, actions[1].LastActionTime.Location())
	// Fractional seconds are accepted.
	assert.Equal(t, time.Date(2026, time.March, 20, 12, 0, 0, 250_000_000, time.UTC), actions[1].NextActionTime)
}

func TestBatch_EmptyInputs(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty array", `[]`},
		{"json null", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions, err := Batch([]byte(tt.body))
			require.NoError(t, err)
			require.NotNil(t, actions)
			assert.Empty(t, actions)
		})
	}
}

func TestBatch_MalformedJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"truncated", `[{"entity_id": "a"`},
		{"object instead of array", `{"entity_id": "a"}`},
		{"wrong field type", `[{"entity_id": "a", "last_action_time": 12345, "next_action_time": "2026-04-01T00:00:00Z", "priority": "normal"}]`},
		{"garbage", `not json at all`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions, err := Batch([]byte(tt.body))
			require.Error(t, err)
			assert.Nil(t, actions)
			assert.Contains(t, err.Error(), "decoding action batch")
		})
	}
}

func TestBatch_RecordValidation(t *testing.T) {
	valid := `{"entity_id": "ok", "last_action_time": "2026-02-01T00:00:00Z", "next_action_time": "2026-04-01T00:00:00Z", "priority": "normal"}`

	tests := []struct {
		name        string
		body        string
		wantErrIs   error
		wantIndex   int
		wantEntity  string
		wantField   string
		wantMessage []string
	}{
		{
			name:        "missing entity id",
			body:        `[{"last_action_time": "2026-02-01T00:00:00Z", "next_action_time": "2026-04-01T00:00:00Z", "priority": "normal"}]`,
			wantErrIs:   ErrMissingEntityID,
			wantIndex:   0,
			wantField:   "entity_id",
			wantMessage: []string{"record 0", "entity_id"},
		},
		{
			name:        "unparseable last_action_time",
			body:        `[{"entity_id": "a", "last_action_time": "yesterday", "next_action_time": "2026-04-01T00:00:00Z", "priority": "normal"}]`,
			wantErrIs:   ErrMalformedTimestamp,
			wantIndex:   0,
			wantEntity:  "a",
			wantField:   "last_action_time",
			wantMessage: []string{`entity "a"`, "last_action_time"},
		},
		{
			name:        "date without a time of day",
			body:        `[{"entity_id": "a", "last_action_time": "2026-02-01T00:00:00Z", "next_action_time": "2026-04-01", "priority": "normal"}]`,
			wantErrIs:   ErrMalformedTimestamp,
			wantIndex:   0,
			wantEntity:  "a",
			wantField:   "next_action_time",
			wantMessage: []string{"next_action_time"},
		},
		{
			name:        "impossible calendar date",
			body:        `[{"entity_id": "a", "last_action_time": "2026-13-45T00:00:00Z", "next_action_time": "2026-04-01T00:00:00Z", "priority": "normal"}]`,
			wantErrIs:   ErrMalformedTimestamp,
			wantIndex:   0,
			wantEntity:  "a",
			wantField:   "last_action_time",
			wantMessage: []string{"last_action_time"},
		},
		{
			name:        "empty timestamp",
			body:        `[{"entity_id": "a", "last_action_time": "", "next_action_time": "2026-04-01T00:00:00Z", "priority": "normal"}]`,
			wantErrIs:   ErrMalformedTimestamp,
			wantIndex:   0,
			wantEntity:  "a",
			wantField:   "last_action_time",
			wantMessage: []string{"empty"},
		},
		{
			name:        "unknown priority names the accepted values",
			body:        `[{"entity_id": "a", "last_action_time": "2026-02-01T00:00:00Z", "next_action_time": "2026-04-01T00:00:00Z", "priority": "high"}]`,
			wantErrIs:   ErrInvalidPriority,
			wantIndex:   0,
			wantEntity:  "a",
			wantField:   "priority",
			wantMessage: []string{`"high"`, "urgent", "normal"},
		},
		{
			name:        "uppercase priority is rejected",
			body:        `[{"entity_id": "a", "last_action_time": "2026-02-01T00:00:00Z", "next_action_time": "2026-04-01T00:00:00Z", "priority": "Urgent"}]`,
			wantErrIs:   ErrInvalidPriority,
			wantIndex:   0,
			wantEntity:  "a",
			wantField:   "priority",
			wantMessage: []string{`"Urgent"`},
		},
		{
			name:        "failure in a later record reports its position",
			body:        `[` + valid + `, {"entity_id": "broken", "last_action_time": "2026-02-01T00:00:00Z", "next_action_time": "2026-04-01T00:00:00Z", "priority": "low"}]`,
			wantErrIs:   ErrInvalidPriority,
			wantIndex:   1,
			wantEntity:  "broken",
			wantField:   "priority",
			wantMessage: []string{"record 1", `entity "broken"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions, err := Batch([]byte(tt.body))
			require.Error(t, err)
			// One bad record fails the whole batch; no partial results.
			assert.Nil(t, actions)

			assert.ErrorIs(t, err, tt.wantErrIs)

			var recErr *RecordError
			require.ErrorAs(t, err, &recErr)
			assert.Equal(t, tt.wantIndex, recErr.Index)
			assert.Equal(t, tt.wantEntity, recErr.EntityID)
			assert.Equal(t, tt.wantField, recErr.Field)

			for _, fragment := range tt.wantMessage {
				assert.Contains(t, err.Error(), fragment)
			}
		})
	}
}

func TestRecords(t *testing.T) {
	raw := []RawAction{
		{EntityID: "a", LastActionTime: "2026-02-01T00:00:00Z", NextActionTime: "2026-04-01T00:00:00Z", Priority: "urgent"},
		{EntityID: "b", LastActionTime: "2026-02-02T00:00:00Z", NextActionTime: "2026-04-02T00:00:00Z", Priority: "normal"},
	}

	actions, err := Records(raw)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, models.PriorityUrgent, actions[0].Priority)
	assert.Equal(t, "b", actions[1].EntityID)
}

func TestRecords_StopsAtFirstFailure(t *testing.T) {
	raw := []RawAction{
		{EntityID: "a", LastActionTime: "2026-02-01T00:00:00Z", NextActionTime: "2026-04-01T00:00:00Z", Priority: "urgent"},
		{EntityID: "b", LastActionTime: "nope", NextActionTime: "2026-04-02T00:00:00Z", Priority: "also-bad"},
	}

	actions, err := Records(raw)
	require.Error(t, err)
	assert.Nil(t, actions)

	// The timestamp is checked before the priority, so the timestamp wins.
	assert.ErrorIs(t, err, ErrMalformedTimestamp)
	assert.False(t, errors.Is(err, ErrInvalidPriority))
}
