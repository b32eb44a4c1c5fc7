package pipeline

import (
	"sort"

	"github.com/JohnBasrai/aws-lambda-action-filter/pkg/models"
)

// SortByPriority returns a new slice with every urgent record ahead of every
// normal one. Ordering is by the numeric rank of the priority, never by
// comparing the priority strings ("normal" < "urgent" lexically, which is
// exactly backwards). The sort is stable, so records of equal priority keep
// their relative order from the input.
func SortByPriority(actions []models.Action) []models.Action {
	sorted := make([]models.Action, len(actions))
	copy(sorted, actions)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority.Rank() < sorted[j].Priority.Rank()
	})
	return sorted
}
