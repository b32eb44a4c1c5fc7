package pipeline

import "github.com/JohnBasrai/aws-lambda-action-filter/pkg/models"

// Dedupe collapses records sharing an entity id down to the record at the
// id's last occurrence in input order. Later records are taken to supersede
// earlier ones, so the survivor carries the latest timestamps and priority.
//
// Output order is the position of each id's last occurrence in the input.
// The order is reconstructed by walking the input slice a second time, never
// by ranging over the map, so the same input always yields the same output.
func Dedupe(actions []models.Action) []models.Action {
	if len(actions) == 0 {
		return []models.Action{}
	}

	lastSeen := make(map[string]int, len(actions))
	for i, action := range actions {
		lastSeen[action.EntityID] = i
	}

	deduped := make([]models.Action, 0, len(lastSeen))
	for i, action := range actions {
		if lastSeen[action.EntityID] == i {
			deduped = append(deduped, action)
		}
	}
	return deduped
}
