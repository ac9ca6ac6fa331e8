package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		old      *Snapshot
		new      *Snapshot
		wantDiff *SnapshotDiff // nil means we expect no diff
	}{
		{
			name:     "Initial Load (Old is Nil)",
			old:      nil,
			new:      &Snapshot{Stack: []string{"(BLOCK", ":a1"}, Lines: 2},
			wantDiff: &SnapshotDiff{Keep: 0, Pushed: []string{"(BLOCK", ":a1"}, Lines: 2},
		},
		{
			name:     "No Changes",
			old:      &Snapshot{Stack: []string{"(BLOCK"}, Lines: 1},
			new:      &Snapshot{Stack: []string{"(BLOCK"}, Lines: 1},
			wantDiff: nil,
		},
		{
			name:     "Inert Line Only",
			old:      &Snapshot{Stack: []string{"(BLOCK"}, Lines: 1},
			new:      &Snapshot{Stack: []string{"(BLOCK"}, Lines: 2},
			wantDiff: &SnapshotDiff{Keep: 1, Lines: 1},
		},
		{
			name:     "Sibling Replaced",
			old:      &Snapshot{Stack: []string{"(", "@ foo"}, Lines: 2},
			new:      &Snapshot{Stack: []string{"(", "@ bar"}, Lines: 3},
			wantDiff: &SnapshotDiff{Keep: 1, Popped: []string{"@ foo"}, Pushed: []string{"@ bar"}, Lines: 1},
		},
		{
			name:     "Closed To Empty",
			old:      &Snapshot{Stack: []string{"(", "@x"}, Lines: 2},
			new:      &Snapshot{Stack: []string{}, Lines: 3},
			wantDiff: &SnapshotDiff{Keep: 0, Popped: []string{"(", "@x"}, Lines: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if !reflect.DeepEqual(got, tt.wantDiff) {
				gotJSON, _ := json.Marshal(got)
				wantJSON, _ := json.Marshal(tt.wantDiff)
				t.Errorf("Diff() = %s, want %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestSigil_Kind(t *testing.T) {
	cases := map[string]string{
		"":      "none",
		"(x":    "open",
		":attr": "attr",
		"@sec":  "section",
		")":     "close",
		"text":  "inert",
	}
	for line, want := range cases {
		if got := SigilOf([]byte(line)).Kind(); got != want {
			t.Errorf("SigilOf(%q).Kind() = %q, want %q", line, got, want)
		}
	}

	if SigilNone.String() != "" {
		t.Errorf("SigilNone.String() should be empty")
	}
	if !strings.EqualFold(SigilSection.String(), "@") {
		t.Errorf("SigilSection.String() = %q", SigilSection.String())
	}
	if SigilOf([]byte("x")).Structural() {
		t.Errorf("inert sigil should not be structural")
	}
}
