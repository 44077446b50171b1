package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	err := RenderText(&buf, Table{
		Title:  "TABLE 1 (With Revocation): Manifestation-centric view",
		Header: []string{"Category", "Linux Yes", "Linux No"},
		Rows: [][]string{
			{"OOB access", "12", "3"},
			{"Explicit exception/panic", "0", "140"},
			{"Total", "12", "143"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	want := "TABLE 1 (With Revocation): Manifestation-centric view\n" +
		"Category                  Linux Yes  Linux No\n" +
		"OOB access                       12         3\n" +
		"Explicit exception/panic          0       140\n" +
		"Total                            12       143\n" +
		"\n"
	if buf.String() != want {
		t.Errorf("RenderText() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	err := RenderCSV(&buf, Table{
		Title:  "TABLE 4: Causes and manifestations",
		Format: FormatCSV,
		Header: []string{"Cause vs. Manifestation", "OOB access", "Total"},
		Rows: [][]string{
			{"Race condition - Improper usage of synch.", "1", "1"},
			{"Bounds, \"checked\"", "2", "2"},
			{"Total", "3", "3"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	want := "TABLE 4: Causes and manifestations\n\n" +
		"Cause vs. Manifestation,OOB access,Total\n" +
		"Race condition - Improper usage of synch.,1,1\n" +
		"\"Bounds, \"\"checked\"\"\",2,2\n" +
		"Total,3,3\n" +
		"\n"
	if buf.String() != want {
		t.Errorf("RenderCSV() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWriteBlock_Banner(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []Block{{Banner: "Generating Tables 1 and 2 (No Revocation)"}}); err != nil {
		t.Fatal(err)
	}
	want := "\n" + rule + "\nGenerating Tables 1 and 2 (No Revocation)\n" + rule + "\n\n"
	if buf.String() != want {
		t.Errorf("banner = %q", buf.String())
	}
	if len(rule) != 72 || strings.Trim(rule, "-") != "" {
		t.Errorf("rule should be 72 dashes")
	}
}
