package api

import (
	"context"
	"net/http"

	"shuryan/models"
)

// GetSessionDocumentation fetches the clinical note attached to the
// session's appointment. A (nil, nil) return means none was written
// yet.
func (c *Client) GetSessionDocumentation(ctx context.Context, appointmentID string) (*models.Documentation, error) {
	var doc models.Documentation
	if err := c.do(ctx, http.MethodGet, "/api/documentation/"+appointmentID, nil, nil, &doc); err != nil {
		return nil, err
	}
	if doc.ID == "" && doc.AppointmentID == "" {
		return nil, nil
	}
	return &doc, nil
}

// CreateDocumentation writes a new clinical note.
func (c *Client) CreateDocumentation(ctx context.Context, doc models.Documentation) (*models.Documentation, error) {
	var created models.Documentation
	if err := c.do(ctx, http.MethodPost, "/api/documentation", nil, doc, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateDocumentation replaces the clinical note for the appointment.
func (c *Client) UpdateDocumentation(ctx context.Context, doc models.Documentation) (*models.Documentation, error) {
	var updated models.Documentation
	if err := c.do(ctx, http.MethodPut, "/api/documentation/"+doc.AppointmentID, nil, doc, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CreatePrescription records a new prescription for the session.
func (c *Client) CreatePrescription(ctx context.Context, p models.Prescription) (*models.Prescription, error) {
	var created models.Prescription
	if err := c.do(ctx, http.MethodPost, "/api/prescriptions", nil, p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateLabPrescription records a new lab test request for the
// session.
func (c *Client) CreateLabPrescription(ctx context.Context, p models.LabPrescription) (*models.LabPrescription, error) {
	var created models.LabPrescription
	if err := c.do(ctx, http.MethodPost, "/api/lab-prescriptions", nil, p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetPatientMedicalRecord fetches the patient's historical record.
func (c *Client) GetPatientMedicalRecord(ctx context.Context, patientID string) (*models.MedicalRecord, error) {
	var record models.MedicalRecord
	if err := c.do(ctx, http.MethodGet, "/api/patients/"+patientID+"/medical-record", nil, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
