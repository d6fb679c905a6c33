package models

import "time"

// Session represents one active or completed doctor-patient
// consultation tied to an appointment. The backend enforces that a
// doctor has at most one InProgress session at a time.
type Session struct {
	SessionID       string            `json:"sessionId,omitempty"`
	AppointmentID   string            `json:"appointmentId"`
	Status          AppointmentStatus `json:"status"`
	StartTime       time.Time         `json:"startTime"`
	DurationMinutes int               `json:"duration"`

	// CalculatedEndTime = StartTime + DurationMinutes, derived client
	// side; never trusted from the wire.
	CalculatedEndTime time.Time `json:"-"`
}

// EndTime derives the session end from its start and duration.
func (s Session) EndTime() time.Time {
	return s.StartTime.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// PatientInfo is the snapshot of the patient attached to a session.
// It is derived from the session start/resume response; appointment
// data is used only as a fallback for the phone number.
type PatientInfo struct {
	PatientID       string `json:"patientId"`
	PatientFullName string `json:"patientFullName"`
	PatientAge      int    `json:"patientAge"`
	PhoneNumber     string `json:"phoneNumber"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// SessionPayload is the wire shape the backend returns for session
// start and resume calls.
type SessionPayload struct {
	SessionID       string            `json:"sessionId"`
	AppointmentID   string            `json:"appointmentId"`
	Status          AppointmentStatus `json:"status"`
	StartTime       string            `json:"startTime"` // may lack a timezone suffix
	Duration        int               `json:"duration"`
	PatientID       string            `json:"patientId"`
	PatientName     string            `json:"patientName"`
	PatientPhone    string            `json:"patientPhone"`
	PatientAge      int               `json:"patientAge"`
	ProfileImageURL string            `json:"profileImageUrl"`
}
