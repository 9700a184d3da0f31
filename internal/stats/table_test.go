package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Char", "Errors", "Attempts"}
	rows := [][]string{
		{"a", "12", "3"},
		{"<space>", "8", "11"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Char    Errors Attempts" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a           12        3" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "<space>      8       11" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable(nil, [][]string{{"日本", "x"}, {"a", "y"}}, nil)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "日本 x" {
		t.Fatalf("unexpected line: %q", lines[0])
	}
	if lines[1] != "a    y" {
		t.Fatalf("unexpected line: %q", lines[1])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil, got %v", lines)
	}
}
