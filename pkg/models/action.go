package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Priority is the urgency tier of an action. Only two tiers exist; anything
// else on the wire is a decode error, never a silently accepted third tier.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityNormal Priority = "normal"
)

// ParsePriority converts a wire literal into a Priority. The error names the
// accepted literals so callers can surface it to the submitter as-is.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityUrgent:
		return PriorityUrgent, nil
	case PriorityNormal:
		return PriorityNormal, nil
	}
	return "", fmt.Errorf("unknown priority %q, expected %q or %q", s, PriorityUrgent, PriorityNormal)
}

// Valid reports whether p is one of the two defined tiers.
func (p Priority) Valid() bool {
	return p == PriorityUrgent || p == PriorityNormal
}

// Rank returns the explicit sort ordinal for the tier: urgent before normal.
// Sorting must go through Rank, never through string comparison of the
// literals: "urgent" sorts after "normal" lexically, which is exactly the
// ordering bug this replaces.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityNormal:
		return 1
	}
	// Unreachable for validated records; rank unknowns last so a stray value
	// can never jump the queue.
	return 2
}

// UnmarshalJSON enforces the strict literal set on decode.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Action is one schedulable record: when an entity was last acted on, when it
// should be acted on next, and how urgently. Actions are value types; the
// pipeline stages copy them and never mutate a caller's slice.
type Action struct {
	EntityID       string    `json:"entity_id"`        // Opaque, non-empty identifier of the entity this action applies to
	LastActionTime time.Time `json:"last_action_time"` // When this action was last performed
	NextActionTime time.Time `json:"next_action_time"` // When this action should next be performed
	Priority       Priority  `json:"priority"`         // Urgency tier, "urgent" or "normal"
}
