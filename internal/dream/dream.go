// Package dream holds the client-side data model for dreams and concepts.
package dream

import "time"

// Concept is a single unit of generated content within a dream. A concept with
// no parents is a seed supplied at dream creation; a concept with parents was
// generated by combining them.
type Concept struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Parent1ID string    `json:"parent1_id,omitempty"`
	Parent2ID string    `json:"parent2_id,omitempty"`
	DreamID   string    `json:"dream_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// IsSeed reports whether the concept has no parent references.
func (c Concept) IsSeed() bool {
	return c.Parent1ID == "" && c.Parent2ID == ""
}

// ParentCount returns the number of parent references (0, 1 or 2).
// Well-formed data has 0 or 2 parents; a single parent is tolerated and
// rendered as a generated concept with one parent badge.
func (c Concept) ParentCount() int {
	n := 0
	if c.Parent1ID != "" {
		n++
	}
	if c.Parent2ID != "" {
		n++
	}
	return n
}

// Dream is one dream's metadata plus its full concept history in generation
// order. The client never mutates concepts; it only replaces the whole slice
// with a fresh server copy.
type Dream struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Concepts  []Concept `json:"-"`
}

// CanContinue reports whether the dream has enough concepts for the backend
// to sample a pair from. Continuation requires at least two.
func (d Dream) CanContinue() bool {
	return len(d.Concepts) >= 2
}

// Summary is the reduced list-view projection of a dream. Label is derived
// server-side from the seed concepts and treated as opaque here.
type Summary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Label     string    `json:"label"`
}

// DisplayLabel returns the label, falling back when the server sent none.
func (s Summary) DisplayLabel() string {
	if s.Label == "" {
		return "Unlabeled"
	}
	return s.Label
}
