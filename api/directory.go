package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"shuryan/models"
)

// DoctorFilters are the server-side filter criteria for the doctor
// directory. Zero values are omitted from the query.
type DoctorFilters struct {
	SearchTerm       string
	MedicalSpecialty string
	Governorate      string
	MinRating        float64
	MinPrice         float64
	MaxPrice         float64
	AvailableToday   bool
}

func (f DoctorFilters) query(pageNumber, pageSize int) url.Values {
	q := url.Values{}
	q.Set("pageNumber", strconv.Itoa(pageNumber))
	q.Set("pageSize", strconv.Itoa(pageSize))
	if f.SearchTerm != "" {
		q.Set("SearchTerm", f.SearchTerm)
	}
	if f.MedicalSpecialty != "" {
		q.Set("MedicalSpecialty", f.MedicalSpecialty)
	}
	if f.Governorate != "" {
		q.Set("Governorate", f.Governorate)
	}
	if f.MinRating > 0 {
		q.Set("MinRating", strconv.FormatFloat(f.MinRating, 'f', -1, 64))
	}
	if f.MinPrice > 0 {
		q.Set("MinPrice", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		q.Set("MaxPrice", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.AvailableToday {
		q.Set("AvailableToday", "true")
	}
	return q
}

// ListDoctors fetches one server-filtered page of the doctor
// directory.
func (c *Client) ListDoctors(ctx context.Context, filters DoctorFilters, pageNumber, pageSize int) (*models.DoctorPage, error) {
	var page models.DoctorPage
	if err := c.do(ctx, http.MethodGet, "/api/doctors", filters.query(pageNumber, pageSize), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListPatients fetches one page of the doctor's patients (only
// patients with at least one completed appointment are returned).
func (c *Client) ListPatients(ctx context.Context, pageNumber, pageSize int) (*models.PatientPage, error) {
	q := url.Values{}
	q.Set("pageNumber", strconv.Itoa(pageNumber))
	q.Set("pageSize", strconv.Itoa(pageSize))
	var page models.PatientPage
	if err := c.do(ctx, http.MethodGet, "/api/patients", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
