package printer

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorReturnsReported(t *testing.T) {
	err := Error("store not found", "No worklog store exists at /tmp/x.", []string{"Run init first."})
	if err == nil {
		t.Fatal("Error() returned nil")
	}
	var rep *Reported
	if !errors.As(err, &rep) {
		t.Fatalf("Error() returned %T, want *Reported", err)
	}
	if rep.Title != "store not found" {
		t.Errorf("Reported.Title = %q", rep.Title)
	}
	if err.Error() != "store not found" {
		t.Errorf("Error() message = %q", err.Error())
	}
}

func TestErrorWithMultipleSuggestions(t *testing.T) {
	err := Error("bad board", "", []string{"Use todo.", "Use doing.", "Use done."})
	var rep *Reported
	if !errors.As(err, &rep) {
		t.Fatalf("Error() returned %T, want *Reported", err)
	}
}

func TestIDContainsInput(t *testing.T) {
	if got := ID("a1b2-0065f3c2aa"); !strings.Contains(got, "a1b2-0065f3c2aa") {
		t.Errorf("ID() = %q, does not contain the id", got)
	}
}

func TestMutedContainsInput(t *testing.T) {
	if got := Muted("(unreadable)"); !strings.Contains(got, "(unreadable)") {
		t.Errorf("Muted() = %q, does not contain the text", got)
	}
}
