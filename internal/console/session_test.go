package console

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/JonMunkholm/cheri-cve/internal/core"
)

type fakeLoader struct {
	datasets map[string]*core.Dataset
	calls    map[string]int
}

func (f *fakeLoader) Load(_ context.Context, info core.DatasetInfo) (*core.Dataset, error) {
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[info.Key]++
	ds, ok := f.datasets[info.Key]
	if !ok {
		return nil, core.NewError(core.KindDataUnavailable, "load "+info.Key, os.ErrNotExist)
	}
	return ds, nil
}

func testCatalog() *core.Catalog {
	return core.NewCatalog(
		core.DatasetInfo{Key: "cves", Label: "CVEs Dataset", Kind: core.KindGeneral, Order: 1},
		core.DatasetInfo{Key: "cheri_vs_rust", Label: "Rust vs CHERI Dataset", Kind: core.KindComparison, Order: 2},
	)
}

func testLoader() *fakeLoader {
	return &fakeLoader{datasets: map[string]*core.Dataset{
		"cves": core.NewDataset("cves",
			[]string{"CVE", "OS", "Causes", "Symptoms", "Solved by CHERI?"},
			[][]string{
				{"CVE-1", "Linux", "Spatial", "Use after free", "yes"},
				{"CVE-2", "Linux", "Spatial", "OOB access", "no"},
				{"CVE-3", "FreeBSD", "Temporal", "OOB access", "yes"},
			}),
		"cheri_vs_rust": core.NewDataset("cheri_vs_rust",
			[]string{"CVE", "Causes", "Symptoms", "Solved by CHERI?"},
			[][]string{
				{"CVE-1", "Spatial memory safety", "OOB access", "yes"},
				{"CVE-2", "Spatial memory safety", "OOB access", "no"},
				{"CVE-3", "Spatial memory safety", "OOB access", "yes"},
				{"CVE-4", "Temporal memory safety", "Use after free", "yes"},
				{"CVE-5", "Temporal memory safety", "Use after free", "no"},
			}),
	}}
}

func runSession(t *testing.T, input string, opts ...Option) (string, *Session) {
	t.Helper()
	var out bytes.Buffer
	s := NewSession(testCatalog(), testLoader(), strings.NewReader(input), &out, opts...)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String(), s
}

func TestSession_ComparisonScenario(t *testing.T) {
	out, s := runSession(t, "2\n2\n1\n3\n")

	if s.State() != Terminated {
		t.Errorf("State() = %v, want terminated", s.State())
	}

	want := []string{
		"Select dataset:\n1. CVEs Dataset\n2. Rust vs CHERI Dataset\n3. Quit\nEnter 1 or 2 or 3: ",
		"\nAvailable columns:\n1. CVE\n2. Causes\n3. Symptoms\n4. Solved by CHERI?\n\nPick column number: ",
		"\nValues in 'Causes':\n1. Spatial memory safety\n2. Temporal memory safety\nPick value number: ",
		"\nFiltering rows where Causes = 'Spatial memory safety'\nTotal rows: 3\n\n",
		"Symptoms and counts:\nOOB access Total=3 | Solved by CHERI?: Yes=2, No=1\n\n",
		"Causes and counts:\nSpatial memory safety Total=3 | Solved by CHERI?: Yes=2, No=1\n\n",
	}
	rest := out
	for _, w := range want {
		i := strings.Index(rest, w)
		if i < 0 {
			t.Fatalf("output missing (or out of order) %q\nfull output:\n%s", w, out)
		}
		rest = rest[i+len(w):]
	}
	if strings.Count(out, "Select dataset:") != 2 {
		t.Errorf("menu should be shown again after the report:\n%s", out)
	}
}

func TestSession_GeneralMissingColumn(t *testing.T) {
	loader := &fakeLoader{datasets: map[string]*core.Dataset{
		"cves": core.NewDataset("cves",
			[]string{"CVE", "Symptoms", "Solved by CHERI?"},
			[][]string{
				{"CVE-1", "OOB access", "yes"},
				{"CVE-2", "OOB access", "no"},
			}),
	}}
	var out bytes.Buffer
	if err := Run(context.Background(), testCatalog(), loader, strings.NewReader("1\n2\n1\n3\n"), &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	for _, w := range []string{
		"Filtering rows where Symptoms = 'OOB access'",
		"OOB access Total=2 | Solved by CHERI?: Yes=1, No=1",
		"No 'Causes' column found.",
	} {
		if !strings.Contains(got, w) {
			t.Errorf("output missing %q:\n%s", w, got)
		}
	}
}

func TestSession_InvalidChoices(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		notice string
		menus  int
	}{
		{"top out of range", "7\n3\n", "Invalid choice.", 2},
		{"top not a number", "abc\n3\n", "Invalid choice.", 2},
		{"top zero", "0\n3\n", "Invalid choice.", 2},
		{"column out of range", "2\n9\n3\n", "Invalid column choice.", 2},
		{"column not a number", "2\nx\n3\n", "Invalid column choice.", 2},
		{"value out of range", "2\n2\n5\n3\n", "Invalid value choice.", 2},
		{"value zero", "2\n2\n0\n3\n", "Invalid value choice.", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, s := runSession(t, tt.input)
			if !strings.Contains(out, tt.notice+"\n") {
				t.Errorf("output missing %q:\n%s", tt.notice, out)
			}
			if got := strings.Count(out, MenuHeader); got != tt.menus {
				t.Errorf("menu shown %d times, want %d", got, tt.menus)
			}
			if strings.Contains(out, "Filtering rows where") {
				t.Error("an invalid choice must not produce a report")
			}
			if s.State() != Terminated {
				t.Errorf("State() = %v, want terminated", s.State())
			}
		})
	}
}

func TestSession_NoticesFollowErrorMessages(t *testing.T) {
	tests := []struct {
		input string
		op    string
		code  string
	}{
		{"7\n3\n", "menu choice", "IN001"},
		{"2\n9\n3\n", "column choice", "IN002"},
		{"2\n2\n5\n3\n", "value choice", "IN003"},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			msg := core.Describe(core.Errorf(core.KindInputValidation, tt.op, "out of range"))
			if msg.Code != tt.code {
				t.Fatalf("Describe(%s).Code = %q, want %q", tt.op, msg.Code, tt.code)
			}
			out, _ := runSession(t, tt.input)
			if !strings.Contains(out, msg.Message+"\n") {
				t.Errorf("output missing %q:\n%s", msg.Message, out)
			}
		})
	}
}

func TestSession_EndOfInput(t *testing.T) {
	inputs := []string{"", "2\n", "2\n2\n", "2\n2\n1\n"}
	for _, in := range inputs {
		out, s := runSession(t, in)
		if s.State() != Terminated {
			t.Errorf("input %q: State() = %v, want terminated", in, s.State())
		}
		if !strings.HasPrefix(out, MenuHeader) {
			t.Errorf("input %q: output should start with the menu", in)
		}
	}
}

func TestSession_DataUnavailable(t *testing.T) {
	catalog := core.NewCatalog(
		core.DatasetInfo{Key: "gone", Label: "Gone", Kind: core.KindGeneral, Order: 1},
	)
	var out bytes.Buffer
	if err := Run(context.Background(), catalog, &fakeLoader{}, strings.NewReader("1\n2\n"), &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Dataset unavailable: ") {
		t.Errorf("output missing unavailable notice:\n%s", got)
	}
	if !strings.Contains(got, "Enter 1 or 2: ") {
		t.Errorf("quit should be choice 2 for a one-dataset catalog:\n%s", got)
	}
	if strings.Count(got, MenuHeader) != 2 {
		t.Errorf("session should return to the menu:\n%s", got)
	}
}

func TestSession_CachesDatasets(t *testing.T) {
	loader := testLoader()
	var out bytes.Buffer
	in := strings.NewReader("2\n2\n1\n2\n2\n2\n3\n")
	if err := Run(context.Background(), testCatalog(), loader, in, &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if loader.calls["cheri_vs_rust"] != 1 {
		t.Errorf("dataset loaded %d times, want 1", loader.calls["cheri_vs_rust"])
	}
}

func TestSession_SummaryHook(t *testing.T) {
	var got []core.Summary
	runSession(t, "2\n2\n1\n1\n2\n2\n3\n", WithSummaryHook(func(s core.Summary) {
		got = append(got, s)
	}))

	if len(got) != 2 {
		t.Fatalf("hook called %d times, want 2", len(got))
	}

	want := []struct{ dataset, column, value string }{
		{"cheri_vs_rust", "Causes", "Spatial memory safety"},
		{"cves", "OS", "FreeBSD"},
	}
	for i, w := range want {
		g := got[i]
		if g.Dataset != w.dataset || g.Column != w.column || g.Value != w.value {
			t.Errorf("summary %d = %s/%s=%s, want %s/%s=%s",
				i, g.Dataset, g.Column, g.Value, w.dataset, w.column, w.value)
		}
	}

	sec, ok := got[1].Section(core.ColumnSymptoms)
	if !ok || len(sec.Groups) != 1 || sec.Groups[0].Label != "OOB access" {
		t.Errorf("FreeBSD symptoms = %+v", sec)
	}
}

func TestSession_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSession(testCatalog(), testLoader(), strings.NewReader("3\n"), &bytes.Buffer{})
	if err := s.Run(ctx); err == nil {
		t.Error("Run() should fail on a canceled context")
	}
}

func TestSession_StepTransitions(t *testing.T) {
	s := NewSession(testCatalog(), testLoader(), strings.NewReader("2\n2\n1\n"), &bytes.Buffer{})
	ctx := context.Background()

	want := []State{AwaitingColumn, AwaitingValue, Reporting, AwaitingTopChoice, Terminated}
	for i, w := range want {
		if err := s.Step(ctx); err != nil {
			t.Fatalf("Step %d error = %v", i, err)
		}
		if s.State() != w {
			t.Fatalf("after step %d State() = %v, want %v", i, s.State(), w)
		}
	}
}

func TestState_String(t *testing.T) {
	if AwaitingValue.String() != "awaiting value" {
		t.Errorf("AwaitingValue.String() = %q", AwaitingValue.String())
	}
	if State(42).String() != "state(42)" {
		t.Errorf("State(42).String() = %q", State(42).String())
	}
}
