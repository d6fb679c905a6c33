package models

import "time"

// Documentation is the clinical note record attached to a session.
type Documentation struct {
	ID                      string `json:"id,omitempty"`
	AppointmentID           string `json:"appointmentId"`
	ChiefComplaint          string `json:"chiefComplaint"`
	HistoryOfPresentIllness string `json:"historyOfPresentIllness"`
	PhysicalExamination     string `json:"physicalExamination"`
	Diagnosis               string `json:"diagnosis"`
	ManagementPlan          string `json:"managementPlan"`
	SessionType             string `json:"sessionType,omitempty"`
}

// Medication is a single line on a prescription.
type Medication struct {
	Name         string `json:"name" validate:"required"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	DurationDays int    `json:"durationDays"`
	Notes        string `json:"notes,omitempty"`
}

// Prescription mirrors the server prescription record.
type Prescription struct {
	ID            string       `json:"id,omitempty"`
	AppointmentID string       `json:"appointmentId"`
	DoctorID      string       `json:"doctorId"`
	PatientID     string       `json:"patientId"`
	Medications   []Medication `json:"medications" validate:"required,min=1,dive"`
	CreatedAt     time.Time    `json:"createdAt,omitempty"`
}

// LabTestItem is a single requested analysis.
type LabTestItem struct {
	TestName string `json:"testName" validate:"required"`
	Notes    string `json:"notes,omitempty"`
}

// LabPrescription mirrors the server lab prescription record.
type LabPrescription struct {
	ID            string        `json:"id,omitempty"`
	AppointmentID string        `json:"appointmentId"`
	DoctorID      string        `json:"doctorId"`
	PatientID     string        `json:"patientId"`
	Items         []LabTestItem `json:"items" validate:"required,min=1,dive"`
	GeneralNotes  string        `json:"generalNotes,omitempty"`
	CreatedAt     time.Time     `json:"createdAt,omitempty"`
}

// MedicalRecord is the patient's historical record as the backend
// returns it for the medical-record tab.
type MedicalRecord struct {
	PatientID       string               `json:"patientId"`
	BloodType       string               `json:"bloodType,omitempty"`
	Allergies       []string             `json:"allergies,omitempty"`
	ChronicDiseases []string             `json:"chronicDiseases,omitempty"`
	PastVisits      []MedicalRecordVisit `json:"pastVisits,omitempty"`
}

// MedicalRecordVisit is one historical consultation summary.
type MedicalRecordVisit struct {
	AppointmentID string    `json:"appointmentId"`
	Date          time.Time `json:"date"`
	Diagnosis     string    `json:"diagnosis"`
	DoctorName    string    `json:"doctorName,omitempty"`
}
