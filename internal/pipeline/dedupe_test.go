package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnBasrai/aws-lambda-action-filter/pkg/models"
)

func TestDedupe(t *testing.T) {
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	// record builds an action whose next_action_time encodes its position in
	// the input, so the assertions can tell which occurrence of an id survived.
	record := func(id string, seq int) models.Action {
		return models.Action{
			EntityID:       id,
			LastActionTime: base,
			NextActionTime: base.AddDate(0, 0, seq),
			Priority:       models.PriorityNormal,
		}
	}

	tests := []struct {
		name  string
		input []models.Action
		want  []models.Action
	}{
		{
			name:  "nil input yields empty output",
			input: nil,
			want:  []models.Action{},
		},
		{
			name:  "empty input yields empty output",
			input: []models.Action{},
			want:  []models.Action{},
		},
		{
			name:  "unique ids pass through in order",
			input: []models.Action{record("a", 0), record("b", 1), record("c", 2)},
			want:  []models.Action{record("a", 0), record("b", 1), record("c", 2)},
		},
		{
			name:  "duplicate id keeps the last occurrence",
			input: []models.Action{record("a", 0), record("b", 1), record("a", 2)},
			want:  []models.Action{record("b", 1), record("a", 2)},
		},
		{
			name:  "every record shares one id",
			input: []models.Action{record("a", 0), record("a", 1), record("a", 2)},
			want:  []models.Action{record("a", 2)},
		},
		{
			name: "interleaved duplicates order by last occurrence",
			input: []models.Action{
				record("a", 0), record("b", 1), record("c", 2),
				record("b", 3), record("a", 4),
			},
			want: []models.Action{record("c", 2), record("b", 3), record("a", 4)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dedupe(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDedupe_Deterministic(t *testing.T) {
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	// Enough distinct ids that map iteration order would scramble the output
	// on some run if it ever leaked into the result.
	var input []models.Action
	for i := 0; i < 50; i++ {
		input = append(input, models.Action{
			EntityID:       fmt.Sprintf("entity-%02d", i),
			LastActionTime: base,
			NextActionTime: base.AddDate(0, 0, 1),
			Priority:       models.PriorityNormal,
		})
	}
	for i := 49; i >= 0; i-- {
		input = append(input, models.Action{
			EntityID:       fmt.Sprintf("entity-%02d", i),
			LastActionTime: base,
			NextActionTime: base.AddDate(0, 0, 2),
			Priority:       models.PriorityUrgent,
		})
	}

	first := Dedupe(input)
	require.Len(t, first, 50)
	// Last occurrences ran in descending id order, so the output does too.
	assert.Equal(t, "entity-49", first[0].EntityID)
	assert.Equal(t, "entity-00", first[49].EntityID)

	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Dedupe(input))
	}
}

func TestDedupe_DoesNotMutateInput(t *testing.T) {
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	input := []models.Action{
		{EntityID: "a", LastActionTime: base, NextActionTime: base, Priority: models.PriorityNormal},
		{EntityID: "a", LastActionTime: base, NextActionTime: base, Priority: models.PriorityUrgent},
	}
	original := make([]models.Action, len(input))
	copy(original, input)

	Dedupe(input)
	assert.Equal(t, original, input)
}
