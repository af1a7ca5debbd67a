package dream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcept_IsSeed(t *testing.T) {
	assert.True(t, Concept{ID: "c1", Content: "a seed"}.IsSeed())
	assert.False(t, Concept{ID: "c3", Parent1ID: "c1", Parent2ID: "c2"}.IsSeed())
	assert.False(t, Concept{ID: "c4", Parent1ID: "c1"}.IsSeed())
}

func TestConcept_ParentCount(t *testing.T) {
	assert.Equal(t, 0, Concept{}.ParentCount())
	assert.Equal(t, 1, Concept{Parent1ID: "c1"}.ParentCount())
	assert.Equal(t, 1, Concept{Parent2ID: "c2"}.ParentCount())
	assert.Equal(t, 2, Concept{Parent1ID: "c1", Parent2ID: "c2"}.ParentCount())
}

func TestDream_CanContinue(t *testing.T) {
	tests := []struct {
		name     string
		concepts int
		want     bool
	}{
		{"no concepts", 0, false},
		{"one concept", 1, false},
		{"two concepts", 2, true},
		{"many concepts", 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Dream{ID: "d"}
			for i := 0; i < tt.concepts; i++ {
				d.Concepts = append(d.Concepts, Concept{})
			}
			assert.Equal(t, tt.want, d.CanContinue())
		})
	}
}

func TestSummary_DisplayLabel(t *testing.T) {
	assert.Equal(t, "Fire Rain", Summary{Label: "Fire Rain"}.DisplayLabel())
	assert.Equal(t, "Unlabeled", Summary{}.DisplayLabel())
}
