package models

import (
	"encoding/json"
	"testing"
)

func TestParseStatusForms(t *testing.T) {
	cases := map[string]AppointmentStatus{
		"Pending":     StatusPending,
		"InProgress":  StatusInProgress,
		"in_progress": StatusInProgress,
		"COMPLETED":   StatusCompleted,
		"no-show":     StatusNoShow,
		"3":           StatusInProgress,
		"4":           StatusCompleted,
		"":            StatusUnknown,
		"99":          StatusUnknown,
		"garbage":     StatusUnknown,
	}
	for in, want := range cases {
		if got := ParseStatus(in); got != want {
			t.Errorf("ParseStatus(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestStatusUnmarshalJSON(t *testing.T) {
	var payload struct {
		Status AppointmentStatus `json:"status"`
	}

	// String form.
	if err := json.Unmarshal([]byte(`{"status":"InProgress"}`), &payload); err != nil {
		t.Fatalf("unmarshal string form: %v", err)
	}
	if payload.Status != StatusInProgress {
		t.Errorf("got %v, want InProgress", payload.Status)
	}

	// Integer form.
	if err := json.Unmarshal([]byte(`{"status":4}`), &payload); err != nil {
		t.Fatalf("unmarshal int form: %v", err)
	}
	if payload.Status != StatusCompleted {
		t.Errorf("got %v, want Completed", payload.Status)
	}

	// Null.
	if err := json.Unmarshal([]byte(`{"status":null}`), &payload); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if payload.Status != StatusUnknown {
		t.Errorf("got %v, want Unknown", payload.Status)
	}
}

func TestStatusMarshalJSON(t *testing.T) {
	out, err := json.Marshal(StatusCheckedIn)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"CheckedIn"` {
		t.Errorf("got %s, want \"CheckedIn\"", out)
	}
}

func TestStatusClassification(t *testing.T) {
	if !StatusCompleted.IsCompleted() {
		t.Error("Completed should classify as completed")
	}
	if !StatusInProgress.IsInProgress() || !StatusCheckedIn.IsInProgress() {
		t.Error("InProgress and CheckedIn should classify as in progress")
	}
	if StatusPending.IsInProgress() || StatusPending.IsCompleted() {
		t.Error("Pending should classify as neither")
	}
}

func TestSessionEndTime(t *testing.T) {
	s := Session{DurationMinutes: 30}
	if got := s.EndTime().Sub(s.StartTime).Minutes(); got != 30 {
		t.Errorf("got %v minutes, want 30", got)
	}
}
