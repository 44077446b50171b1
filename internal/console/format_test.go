package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/cheri-cve/internal/core"
)

func TestGroupLines(t *testing.T) {
	tests := []struct {
		name  string
		group core.Group
		wrap  int
		want  []string
	}{
		{
			name: "single pair",
			group: core.Group{Label: "OOB access", Count: 3, Bools: []core.BoolCount{
				{Column: "Solved by CHERI?", Yes: 2, No: 1},
			}},
			wrap: 60,
			want: []string{"OOB access Total=3 | Solved by CHERI?: Yes=2, No=1"},
		},
		{
			name: "two pairs",
			group: core.Group{Label: "Use after free", Count: 2, Bools: []core.BoolCount{
				{Column: "Solved by CHERI?", Yes: 1, No: 1},
				{Column: "Solved by Rust?", Yes: 2, No: 0},
			}},
			want: []string{"Use after free Total=2 | Solved by CHERI?: Yes=1, No=1 | Solved by Rust?: Yes=2, No=0"},
		},
		{
			name:  "no pairs",
			group: core.Group{Label: "Double free", Count: 1},
			want:  []string{"Double free Total=1"},
		},
		{
			name:  "wrapped",
			group: core.Group{Label: "alpha beta gamma", Count: 4},
			wrap:  8,
			want:  []string{"alpha Total=4", "    beta", "    gamma"},
		},
		{
			name:  "blank label",
			group: core.Group{Label: "  ", Count: 1},
			want:  []string{"(blank) Total=1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, GroupLines(tt.group, tt.wrap)); diff != "" {
				t.Errorf("GroupLines() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWrapLabel(t *testing.T) {
	long := "Race condition - Improper usage of synchronization primitives"

	if got := wrapLabel(long, 0); len(got) != 1 || got[0] != long {
		t.Errorf("wrap 0 should not wrap, got %q", got)
	}
	if got := wrapLabel("a   b", 40); got[0] != "a b" {
		t.Errorf("whitespace should collapse, got %q", got)
	}

	parts := wrapLabel(long, 30)
	if len(parts) < 2 {
		t.Fatalf("wrapLabel(%d chars, 30) = %q, want several segments", len(long), parts)
	}
	if joined := strings.Join(parts, " "); joined != long {
		t.Errorf("segments joined = %q, want %q", joined, long)
	}
	for _, p := range parts {
		if p != strings.TrimSpace(p) || p == "" {
			t.Errorf("segment %q should be trimmed and non-empty", p)
		}
	}
}

func TestRenderer_Menu(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, 0)
	r.Menu([]core.DatasetInfo{{Label: "CVEs Dataset"}, {Label: "Rust vs CHERI Dataset"}})

	want := "Select dataset:\n1. CVEs Dataset\n2. Rust vs CHERI Dataset\n3. Quit\nEnter 1 or 2 or 3: "
	if buf.String() != want {
		t.Errorf("Menu() = %q, want %q", buf.String(), want)
	}
}

func TestRenderer_ComparisonTotals(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, 0)
	r.Summary(core.Summary{
		Kind:        core.KindComparison,
		Column:      "CVE",
		Value:       "CVE-1",
		Total:       1,
		BoolColumns: []string{"Solved by CHERI?"},
		Sections: []core.Section{
			{Column: core.ColumnSymptoms},
			{Column: core.ColumnCauses},
		},
		Totals: []core.BoolCount{{Column: "Solved by CHERI?", Yes: 1}},
	})

	want := "\nFiltering rows where CVE = 'CVE-1'\nTotal rows: 1\n\n" +
		"Boolean totals:\nSolved by CHERI?: Yes=1, No=0\n\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Summary() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_NoBoolColumns(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, 0)
	r.Summary(core.Summary{Kind: core.KindComparison, Column: "CVE", Value: "x", Total: 0})

	if !strings.HasSuffix(buf.String(), "No boolean-like columns found.\n\n") {
		t.Errorf("Summary() = %q", buf.String())
	}
}

type failingWriter struct{ n int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.n++
	return 0, errors.New("closed")
}

func TestRenderer_StopsAfterError(t *testing.T) {
	w := &failingWriter{}
	r := NewRenderer(w, 0)
	r.Notice("one")
	r.Notice("two")

	if r.Err() == nil {
		t.Fatal("Err() = nil, want write error")
	}
	if w.n != 1 {
		t.Errorf("writer called %d times after failure, want 1", w.n)
	}
}
