package models

import "time"

// Pagination carries the cursor metadata the backend attaches to every
// paginated listing.
type Pagination struct {
	PageNumber      int  `json:"pageNumber"`
	PageSize        int  `json:"pageSize"`
	TotalCount      int  `json:"totalCount"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// Doctor is one row of the public doctor directory.
type Doctor struct {
	ID               string   `json:"id"`
	FullName         string   `json:"fullName"`
	MedicalSpecialty string   `json:"medicalSpecialty"`
	Governorate      string   `json:"governorate"`
	City             string   `json:"city,omitempty"`
	Rating           float64  `json:"rating"`
	ReviewCount      int      `json:"reviewCount"`
	SessionPrice     float64  `json:"sessionPrice"`
	AvailableToday   bool     `json:"availableToday"`
	ProfileImageURL  string   `json:"profileImageUrl,omitempty"`
	Languages        []string `json:"languages,omitempty"`
}

// Patient is one row of the doctor's patient list (patients with at
// least one completed appointment).
type Patient struct {
	ID              string    `json:"id"`
	FullName        string    `json:"fullName"`
	Age             int       `json:"age"`
	PhoneNumber     string    `json:"phoneNumber"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
	LastVisit       time.Time `json:"lastVisit"`
	SessionCount    int       `json:"sessionCount"`
}

// DoctorPage is a server-filtered page of the doctor directory.
type DoctorPage struct {
	Doctors []Doctor `json:"data"`
	Pagination
}

// PatientPage is one page of the doctor's patient list.
type PatientPage struct {
	Patients []Patient `json:"data"`
	Pagination
}
