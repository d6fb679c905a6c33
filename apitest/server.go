// Package apitest runs an in-memory stand-in for the ShurYan backend.
// Tests point an api.Client at it, seed state, and assert on the call
// counters. Only the contract surface the client consumes is
// implemented.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"shuryan/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ConflictMessage mirrors the backend wording when the doctor already
// has another running session.
const ConflictMessage = "لا يمكن بدء الجلسة، لديك جلسة نشطة أخرى قيد التنفيذ"

// Server is the fake backend.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	sessions      map[string]models.SessionPayload // by appointment id
	docs          map[string]models.Documentation  // by appointment id
	prescriptions map[string][]models.Prescription
	labs          map[string][]models.LabPrescription
	records       map[string]models.MedicalRecord // by patient id
	doctors       []models.Doctor
	patients      []models.Patient
	conflict      bool
	calls         map[string]int
}

// New starts the fake backend. Callers own the returned server and
// must Close it.
func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		sessions:      make(map[string]models.SessionPayload),
		docs:          make(map[string]models.Documentation),
		prescriptions: make(map[string][]models.Prescription),
		labs:          make(map[string][]models.LabPrescription),
		records:       make(map[string]models.MedicalRecord),
		calls:         make(map[string]int),
	}

	router := gin.New()
	api := router.Group("/api")
	{
		api.POST("/sessions/start", s.startSession)
		api.GET("/sessions/active/:appointmentId", s.getActiveSession)
		api.PUT("/sessions/end", s.endSession)

		api.GET("/documentation/:appointmentId", s.getDocumentation)
		api.POST("/documentation", s.createDocumentation)
		api.PUT("/documentation/:appointmentId", s.updateDocumentation)

		api.POST("/prescriptions", s.createPrescription)
		api.POST("/lab-prescriptions", s.createLabPrescription)
		api.GET("/patients/:patientId/medical-record", s.getMedicalRecord)

		api.GET("/doctors", s.listDoctors)
		api.GET("/patients", s.listPatients)
	}

	s.Server = httptest.NewServer(router)
	return s
}

// SetConflict makes subsequent start calls fail with the
// active-session conflict message.
func (s *Server) SetConflict(v bool) {
	s.mu.Lock()
	s.conflict = v
	s.mu.Unlock()
}

// SeedSession installs an existing session for an appointment.
func (s *Server) SeedSession(payload models.SessionPayload) {
	s.mu.Lock()
	s.sessions[payload.AppointmentID] = payload
	s.mu.Unlock()
}

// SeedDocumentation installs an existing clinical note.
func (s *Server) SeedDocumentation(doc models.Documentation) {
	s.mu.Lock()
	s.docs[doc.AppointmentID] = doc
	s.mu.Unlock()
}

// SeedMedicalRecord installs a patient record.
func (s *Server) SeedMedicalRecord(record models.MedicalRecord) {
	s.mu.Lock()
	s.records[record.PatientID] = record
	s.mu.Unlock()
}

// SeedDoctors replaces the doctor directory.
func (s *Server) SeedDoctors(doctors []models.Doctor) {
	s.mu.Lock()
	s.doctors = doctors
	s.mu.Unlock()
}

// SeedPatients replaces the patient list.
func (s *Server) SeedPatients(patients []models.Patient) {
	s.mu.Lock()
	s.patients = patients
	s.mu.Unlock()
}

// CallCount returns how many times the named operation was hit.
// Names: startSession, getActiveSession, endSession, getDocumentation,
// createDocumentation, updateDocumentation, createPrescription,
// createLabPrescription, getMedicalRecord, listDoctors, listPatients.
func (s *Server) CallCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *Server) count(name string) {
	s.calls[name]++
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"isSuccess": true, "data": data})
}

func failure(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"isSuccess": false, "message": message})
}

func (s *Server) startSession(c *gin.Context) {
	var input struct {
		AppointmentID string `json:"appointmentId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.AppointmentID == "" {
		failure(c, http.StatusBadRequest, "invalid input")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("startSession")

	if s.conflict {
		failure(c, http.StatusConflict, ConflictMessage)
		return
	}

	payload, exists := s.sessions[input.AppointmentID]
	if !exists {
		payload = models.SessionPayload{
			SessionID:     uuid.New().String(),
			AppointmentID: input.AppointmentID,
			Status:        models.StatusInProgress,
			StartTime:     time.Now().UTC().Format(time.RFC3339),
			Duration:      30,
		}
		s.sessions[input.AppointmentID] = payload
	}
	success(c, payload)
}

func (s *Server) getActiveSession(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("getActiveSession")

	payload, exists := s.sessions[c.Param("appointmentId")]
	if !exists {
		success(c, nil)
		return
	}
	success(c, payload)
}

func (s *Server) endSession(c *gin.Context) {
	var input struct {
		AppointmentID string `json:"appointmentId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.AppointmentID == "" {
		failure(c, http.StatusBadRequest, "invalid input")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("endSession")

	payload, exists := s.sessions[input.AppointmentID]
	if !exists {
		failure(c, http.StatusNotFound, "session not found")
		return
	}
	payload.Status = models.StatusCompleted
	s.sessions[input.AppointmentID] = payload
	success(c, nil)
}

func (s *Server) getDocumentation(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("getDocumentation")

	doc, exists := s.docs[c.Param("appointmentId")]
	if !exists {
		success(c, nil)
		return
	}
	success(c, doc)
}

func (s *Server) createDocumentation(c *gin.Context) {
	var doc models.Documentation
	if err := c.ShouldBindJSON(&doc); err != nil {
		failure(c, http.StatusBadRequest, "invalid input")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("createDocumentation")

	doc.ID = uuid.New().String()
	s.docs[doc.AppointmentID] = doc
	success(c, doc)
}

func (s *Server) updateDocumentation(c *gin.Context) {
	var doc models.Documentation
	if err := c.ShouldBindJSON(&doc); err != nil {
		failure(c, http.StatusBadRequest, "invalid input")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("updateDocumentation")

	existing, exists := s.docs[c.Param("appointmentId")]
	if !exists {
		failure(c, http.StatusNotFound, "documentation not found")
		return
	}
	doc.ID = existing.ID
	doc.AppointmentID = existing.AppointmentID
	s.docs[doc.AppointmentID] = doc
	success(c, doc)
}

func (s *Server) createPrescription(c *gin.Context) {
	var p models.Prescription
	if err := c.ShouldBindJSON(&p); err != nil {
		failure(c, http.StatusBadRequest, "invalid input")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("createPrescription")

	p.ID = uuid.New().String()
	p.CreatedAt = time.Now().UTC()
	s.prescriptions[p.AppointmentID] = append(s.prescriptions[p.AppointmentID], p)
	success(c, p)
}

func (s *Server) createLabPrescription(c *gin.Context) {
	var p models.LabPrescription
	if err := c.ShouldBindJSON(&p); err != nil {
		failure(c, http.StatusBadRequest, "invalid input")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("createLabPrescription")

	p.ID = uuid.New().String()
	p.CreatedAt = time.Now().UTC()
	s.labs[p.AppointmentID] = append(s.labs[p.AppointmentID], p)
	success(c, p)
}

func (s *Server) getMedicalRecord(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("getMedicalRecord")

	record, exists := s.records[c.Param("patientId")]
	if !exists {
		success(c, models.MedicalRecord{PatientID: c.Param("patientId")})
		return
	}
	success(c, record)
}

func (s *Server) listDoctors(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("listDoctors")

	term := strings.ToLower(c.Query("SearchTerm"))
	specialty := c.Query("MedicalSpecialty")
	governorate := c.Query("Governorate")
	minRating, _ := strconv.ParseFloat(c.Query("MinRating"), 64)
	minPrice, _ := strconv.ParseFloat(c.Query("MinPrice"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("MaxPrice"), 64)
	availableToday := c.Query("AvailableToday") == "true"

	var matched []models.Doctor
	for _, d := range s.doctors {
		if term != "" && !strings.Contains(strings.ToLower(d.FullName), term) {
			continue
		}
		if specialty != "" && d.MedicalSpecialty != specialty {
			continue
		}
		if governorate != "" && d.Governorate != governorate {
			continue
		}
		if minRating > 0 && d.Rating < minRating {
			continue
		}
		if minPrice > 0 && d.SessionPrice < minPrice {
			continue
		}
		if maxPrice > 0 && d.SessionPrice > maxPrice {
			continue
		}
		if availableToday && !d.AvailableToday {
			continue
		}
		matched = append(matched, d)
	}

	pageNumber, pageSize := pageParams(c)
	page, pg := paginateDoctors(matched, pageNumber, pageSize)
	success(c, models.DoctorPage{Doctors: page, Pagination: pg})
}

func (s *Server) listPatients(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("listPatients")

	pageNumber, pageSize := pageParams(c)
	page, pg := paginatePatients(s.patients, pageNumber, pageSize)
	success(c, models.PatientPage{Patients: page, Pagination: pg})
}

func pageParams(c *gin.Context) (int, int) {
	pageNumber, _ := strconv.Atoi(c.Query("pageNumber"))
	if pageNumber < 1 {
		pageNumber = 1
	}
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	if pageSize < 1 {
		pageSize = 10
	}
	return pageNumber, pageSize
}

func paginationFor(total, pageNumber, pageSize int) models.Pagination {
	totalPages := (total + pageSize - 1) / pageSize
	return models.Pagination{
		PageNumber:      pageNumber,
		PageSize:        pageSize,
		TotalCount:      total,
		TotalPages:      totalPages,
		HasNextPage:     pageNumber < totalPages,
		HasPreviousPage: pageNumber > 1 && totalPages > 0,
	}
}

func paginateDoctors(all []models.Doctor, pageNumber, pageSize int) ([]models.Doctor, models.Pagination) {
	pg := paginationFor(len(all), pageNumber, pageSize)
	start := (pageNumber - 1) * pageSize
	if start >= len(all) {
		return nil, pg
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], pg
}

func paginatePatients(all []models.Patient, pageNumber, pageSize int) ([]models.Patient, models.Pagination) {
	pg := paginationFor(len(all), pageNumber, pageSize)
	start := (pageNumber - 1) * pageSize
	if start >= len(all) {
		return nil, pg
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], pg
}
