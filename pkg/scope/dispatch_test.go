package scope_test

import (
	"testing"

	"github.com/aretw0/tinysplit/pkg/domain"
	"github.com/aretw0/tinysplit/pkg/scope"
	"github.com/stretchr/testify/assert"
)

// sigils is a stack view built from literal sigils.
type sigils string

func (s sigils) Len() int { return len(s) }

func (s sigils) SigilAt(i int) domain.Sigil { return domain.Sigil(s[i]) }

func TestDecide(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		stack sigils
		want  scope.Decision
	}{
		{"open pushes", "(BLOCK", "", scope.Decision{Push: true}},
		{"attr pushes", ":a", "(", scope.Decision{Push: true}},
		{"attr never pops", ":a", "(@:", scope.Decision{Push: true}},

		{"section on empty stack", "@x", "", scope.Decision{Push: true}},
		{"section nests under open", "@x", "(", scope.Decision{Push: true}},
		{"section skips attrs to reach open", "@x", "(:", scope.Decision{Push: true}},
		{"section replaces sibling", "@x", "(@", scope.Decision{Pop: true, PopTo: 1, Push: true}},
		{"section replaces sibling below attrs", "@x", "(@::", scope.Decision{Pop: true, PopTo: 1, Push: true}},
		{"section stops at nearest open", "@x", "@(", scope.Decision{Push: true}},
		{"section replaces root sibling", "@x", "@:", scope.Decision{Pop: true, PopTo: 0, Push: true}},
		{"section exhausts inert stack", "@x", "::", scope.Decision{Push: true}},
		{"bare section only closes", "@", "(@:", scope.Decision{Pop: true, PopTo: 1}},
		{"bare section under open", "@", "(", scope.Decision{}},

		{"close nearest open", ")", "(:(@", scope.Decision{Pop: true, PopTo: 2}},
		{"close root open", ")", "(@:", scope.Decision{Pop: true, PopTo: 0}},
		{"close without open recovers", ")", ":@", scope.Decision{Pop: true, PopTo: 0, Recovered: true}},
		{"close on empty stack", ")", "", scope.Decision{Pop: true, PopTo: 0, Recovered: true}},

		{"inert text", "foo", "(", scope.Decision{}},
		{"empty line", "", "(", scope.Decision{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scope.Decide([]byte(tt.line), tt.stack))
		})
	}
}
