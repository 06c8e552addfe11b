package ingest

import (
	"reflect"
	"testing"
)

func TestTokenize_QuotedFieldWithCommas(t *testing.T) {
	rows := Tokenize("\"a,\"\"b\"\",c\",d\r\ne,f\n")

	want := [][]string{
		{"a,\"b\",c", "d"},
		{"e", "f"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("got %q, want %q", rows, want)
	}
}

func TestTokenize_QuotedNewline(t *testing.T) {
	rows := Tokenize("\"line one\nline two\",x\n")

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0][0] != "line one\nline two" {
		t.Fatalf("got %q", rows[0][0])
	}
	if rows[0][1] != "x" {
		t.Fatalf("got %q", rows[0][1])
	}
}

func TestTokenize_StripsBOM(t *testing.T) {
	rows := Tokenize("\uFEFFa,b\n")

	if len(rows) != 1 || rows[0][0] != "a" {
		t.Fatalf("BOM not stripped: %q", rows)
	}
}

func TestTokenize_TrailingRowWithoutNewline(t *testing.T) {
	rows := Tokenize("a,b\nc,d")

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !reflect.DeepEqual(rows[1], []string{"c", "d"}) {
		t.Fatalf("got %q", rows[1])
	}
}

func TestTokenize_NoTrailingPhantomRow(t *testing.T) {
	rows := Tokenize("a,b\n")

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d: %q", len(rows), rows)
	}
}

func TestTokenize_EmptyInput(t *testing.T) {
	if rows := Tokenize(""); len(rows) != 0 {
		t.Fatalf("expected no rows, got %q", rows)
	}
}

func TestTokenize_RaggedRowsPassThrough(t *testing.T) {
	rows := Tokenize("a,b,c\nd\ne,f\n")

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if len(rows[0]) != 3 || len(rows[1]) != 1 || len(rows[2]) != 2 {
		t.Fatalf("field counts altered: %q", rows)
	}
}

func TestTokenize_EmptyFields(t *testing.T) {
	rows := Tokenize("a,,c\n")

	if !reflect.DeepEqual(rows[0], []string{"a", "", "c"}) {
		t.Fatalf("got %q", rows[0])
	}
}
