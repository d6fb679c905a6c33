package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AppointmentStatus represents the status of an appointment.
type AppointmentStatus int

const (
	StatusUnknown AppointmentStatus = iota - 1
	StatusPending
	StatusConfirmed
	StatusCheckedIn
	StatusInProgress
	StatusCompleted
	StatusNoShow
	StatusCancelled
)

var statusNames = map[AppointmentStatus]string{
	StatusPending:    "Pending",
	StatusConfirmed:  "Confirmed",
	StatusCheckedIn:  "CheckedIn",
	StatusInProgress: "InProgress",
	StatusCompleted:  "Completed",
	StatusNoShow:     "NoShow",
	StatusCancelled:  "Cancelled",
}

func (s AppointmentStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// ParseStatus normalizes a backend status value. The ShurYan API sends
// the status as either a name ("InProgress") or a small integer (3),
// sometimes with different casing or snake_case separators.
func ParseStatus(raw string) AppointmentStatus {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StatusUnknown
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if _, ok := statusNames[AppointmentStatus(n)]; ok {
			return AppointmentStatus(n)
		}
		return StatusUnknown
	}
	normalized := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(raw))
	for status, name := range statusNames {
		if strings.ToLower(name) == normalized {
			return status
		}
	}
	return StatusUnknown
}

// UnmarshalJSON accepts both string and integer encodings.
func (s *AppointmentStatus) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = StatusUnknown
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return fmt.Errorf("invalid status string: %w", err)
		}
		*s = ParseStatus(str)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid status value %q: %w", string(data), err)
	}
	*s = ParseStatus(strconv.Itoa(n))
	return nil
}

// MarshalJSON emits the canonical name form.
func (s AppointmentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// IsCompleted reports whether the appointment already finished.
func (s AppointmentStatus) IsCompleted() bool {
	return s == StatusCompleted
}

// IsInProgress reports whether a consultation is already running for
// the appointment (checked-in patients count as in progress for the
// start-or-resume decision).
func (s AppointmentStatus) IsInProgress() bool {
	return s == StatusInProgress || s == StatusCheckedIn
}

// Appointment is the scheduling record a session is created against.
type Appointment struct {
	ID              string            `json:"id"`
	PatientID       string            `json:"patientId,omitempty"`
	PatientName     string            `json:"patientName,omitempty"`
	PatientPhone    string            `json:"patientPhone,omitempty"`
	PatientAge      int               `json:"patientAge,omitempty"`
	Status          AppointmentStatus `json:"status"`
	Date            string            `json:"date,omitempty"`      // "2006-01-02"
	TimeOfDay       string            `json:"startTime,omitempty"` // "15:04" or "15:04:05"
	DurationMinutes int               `json:"durationInMinutes,omitempty"`
}
