package diag

import (
	"testing"

	"rfpocket/internal/haltest"
)

func TestPrintfTags(t *testing.T) {
	sink := &haltest.Logger{}
	l := New(sink, "link")
	l.Printf("radio link %s", "up")
	l.With("").Printf("plain")
	l.With("tx").Printf("replay #%d", 3)

	want := []string{"link: radio link up", "plain", "tx: replay #3"}
	if len(sink.Lines) != len(want) {
		t.Fatalf("lines = %q", sink.Lines)
	}
	for i := range want {
		if sink.Lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, sink.Lines[i], want[i])
		}
	}
}

func TestZeroLogDiscards(t *testing.T) {
	var l Log
	l.Printf("dropped %d", 1)
	l.With("rx").Printf("dropped")
}
