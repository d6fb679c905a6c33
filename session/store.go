// Package session implements the consultation session lifecycle: the
// store owning the active session and its countdown timer, the
// manager deciding between starting, resuming and read-only viewing,
// and the autosave coordination for session documentation.
package session

import (
	"context"
	"sync"
	"time"

	"shuryan/api"
	"shuryan/models"
	"shuryan/timeutil"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Backend is the slice of the ShurYan API the store consumes.
// *api.Client satisfies it.
type Backend interface {
	StartSession(ctx context.Context, appointmentID string) (*models.SessionPayload, error)
	GetActiveSession(ctx context.Context, appointmentID string) (*models.SessionPayload, error)
	EndSession(ctx context.Context, appointmentID string) error
	GetSessionDocumentation(ctx context.Context, appointmentID string) (*models.Documentation, error)
	CreateDocumentation(ctx context.Context, doc models.Documentation) (*models.Documentation, error)
	UpdateDocumentation(ctx context.Context, doc models.Documentation) (*models.Documentation, error)
	CreatePrescription(ctx context.Context, p models.Prescription) (*models.Prescription, error)
	CreateLabPrescription(ctx context.Context, p models.LabPrescription) (*models.LabPrescription, error)
	GetPatientMedicalRecord(ctx context.Context, patientID string) (*models.MedicalRecord, error)
}

// Store is the single source of truth for the session the doctor is
// currently working on, plus its countdown timer. Construct one per
// signed-in doctor; state is not shared across instances.
type Store struct {
	backend  Backend
	logger   *zap.Logger
	validate *validator.Validate
	now      func() time.Time
	timer    *Timer

	doctorID        string
	defaultDuration int

	mu            sync.RWMutex
	current       *models.Session
	patient       *models.PatientInfo
	prescriptions []models.Prescription
	labTests      []models.LabPrescription
	documentation *models.Documentation
	medicalRecord *models.MedicalRecord
	timeRemaining int
	loading       bool
	lastError     string
}

// StoreOptions configure a Store. Backend is required; everything else
// has defaults.
type StoreOptions struct {
	Backend                Backend
	DoctorID               string
	Logger                 *zap.Logger
	Now                    func() time.Time
	DefaultDurationMinutes int
	TickSource             TickSource
}

// NewStore builds a session store.
func NewStore(opts StoreOptions) *Store {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultDurationMinutes <= 0 {
		opts.DefaultDurationMinutes = 30
	}
	return &Store{
		backend:         opts.Backend,
		logger:          opts.Logger,
		validate:        validator.New(),
		now:             opts.Now,
		timer:           NewTimerWithSource(opts.TickSource),
		doctorID:        opts.DoctorID,
		defaultDuration: opts.DefaultDurationMinutes,
	}
}

// StartSession asks the backend to open a session for the appointment
// and installs it as the current session. Existing state is left
// untouched on failure.
func (s *Store) StartSession(ctx context.Context, appointmentID string, appt *models.Appointment) SessionResult {
	if appointmentID == "" {
		return SessionResult{Result: fail(MsgMissingAppointment)}
	}

	s.setLoading(true)
	defer s.setLoading(false)

	payload, err := s.backend.StartSession(ctx, appointmentID)
	if err != nil {
		msg := NormalizeMessage(api.BackendMessage(err))
		s.setError(msg)
		return SessionResult{Result: fail(msg)}
	}
	if payload == nil {
		// The start endpoint must return the created session; an empty
		// success body leaves nothing to install.
		s.logger.Warn("start returned no session payload",
			zap.String("appointmentId", appointmentID))
		s.setError(MsgGenericFailure)
		return SessionResult{Result: fail(MsgGenericFailure)}
	}

	sess, patient := s.buildSession(appointmentID, payload, appt)

	s.mu.Lock()
	s.current = sess
	s.patient = patient
	s.timeRemaining = timeutil.RemainingSeconds(sess.CalculatedEndTime, s.now())
	s.lastError = ""
	s.mu.Unlock()

	s.StartTimer()
	return SessionResult{Result: ok(), IsActive: true, Session: sess}
}

// GetActiveSession fetches whatever session currently exists for the
// appointment and rehydrates store state from it. Used to resume after
// navigation or reload, and to review a completed session read-only.
// No session existing is a successful outcome with IsActive=false.
func (s *Store) GetActiveSession(ctx context.Context, appointmentID string, appt *models.Appointment) SessionResult {
	if appointmentID == "" {
		return SessionResult{Result: fail(MsgMissingAppointment)}
	}

	s.setLoading(true)
	defer s.setLoading(false)

	payload, err := s.backend.GetActiveSession(ctx, appointmentID)
	if err != nil {
		msg := NormalizeMessage(api.BackendMessage(err))
		s.setError(msg)
		return SessionResult{Result: fail(msg)}
	}
	if payload == nil {
		return SessionResult{Result: ok(), IsActive: false}
	}

	sess, patient := s.buildSession(appointmentID, payload, appt)
	completed := sess.Status.IsCompleted()

	s.mu.Lock()
	s.current = sess
	s.patient = patient
	s.timeRemaining = timeutil.RemainingSeconds(sess.CalculatedEndTime, s.now())
	s.lastError = ""
	s.mu.Unlock()

	// A finished session has no countdown.
	if !completed {
		s.StartTimer()
	}
	return SessionResult{Result: ok(), IsActive: !completed, IsCompleted: completed, Session: sess}
}

// EndSession terminates the current session on the backend and clears
// all session-scoped state. On failure state is left untouched so the
// doctor can retry.
func (s *Store) EndSession(ctx context.Context) Result {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()
	if current == nil {
		return fail(MsgNoActiveSession)
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.backend.EndSession(ctx, current.AppointmentID); err != nil {
		msg := NormalizeMessage(api.BackendMessage(err))
		s.setError(msg)
		return fail(msg)
	}

	s.Reset()
	return ok()
}

// FetchPatientMedicalRecord loads the current patient's historical
// record into the store.
func (s *Store) FetchPatientMedicalRecord(ctx context.Context) Result {
	s.mu.RLock()
	patient := s.patient
	s.mu.RUnlock()
	if patient == nil {
		return fail(MsgNoActiveSession)
	}

	s.setLoading(true)
	defer s.setLoading(false)

	record, err := s.backend.GetPatientMedicalRecord(ctx, patient.PatientID)
	if err != nil {
		msg := NormalizeMessage(api.BackendMessage(err))
		s.setError(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.medicalRecord = record
	s.mu.Unlock()
	return ok()
}

// FetchDocumentation loads the session's clinical note, if one was
// already written. Its presence switches AddDocumentation from create
// to update semantics.
func (s *Store) FetchDocumentation(ctx context.Context) Result {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()
	if current == nil {
		return fail(MsgNoActiveSession)
	}

	s.setLoading(true)
	defer s.setLoading(false)

	doc, err := s.backend.GetSessionDocumentation(ctx, current.AppointmentID)
	if err != nil {
		msg := NormalizeMessage(api.BackendMessage(err))
		s.setError(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.documentation = doc
	s.mu.Unlock()
	return ok()
}

// CreatePrescription records a prescription for the current session
// and appends it to the in-memory list.
func (s *Store) CreatePrescription(ctx context.Context, medications []models.Medication) Result {
	s.mu.RLock()
	current, patient := s.current, s.patient
	s.mu.RUnlock()
	if current == nil || patient == nil {
		return fail(MsgNoActiveSession)
	}

	p := models.Prescription{
		AppointmentID: current.AppointmentID,
		DoctorID:      s.doctorID,
		PatientID:     patient.PatientID,
		Medications:   medications,
	}
	if err := s.validate.Struct(p); err != nil {
		return fail(MsgGenericFailure)
	}

	s.setLoading(true)
	defer s.setLoading(false)

	created, err := s.backend.CreatePrescription(ctx, p)
	if err != nil {
		msg := NormalizeMessage(api.BackendMessage(err))
		s.setError(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.prescriptions = append(s.prescriptions, *created)
	s.mu.Unlock()
	return ok()
}

// RequestLabTest records a lab prescription for the current session
// and appends it to the in-memory list.
func (s *Store) RequestLabTest(ctx context.Context, items []models.LabTestItem, generalNotes string) Result {
	s.mu.RLock()
	current, patient := s.current, s.patient
	s.mu.RUnlock()
	if current == nil || patient == nil {
		return fail(MsgNoActiveSession)
	}

	p := models.LabPrescription{
		AppointmentID: current.AppointmentID,
		DoctorID:      s.doctorID,
		PatientID:     patient.PatientID,
		Items:         items,
		GeneralNotes:  generalNotes,
	}
	if err := s.validate.Struct(p); err != nil {
		return fail(MsgGenericFailure)
	}

	s.setLoading(true)
	defer s.setLoading(false)

	created, err := s.backend.CreateLabPrescription(ctx, p)
	if err != nil {
		msg := NormalizeMessage(api.BackendMessage(err))
		s.setError(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.labTests = append(s.labTests, *created)
	s.mu.Unlock()
	return ok()
}

// AddDocumentation upserts the session's clinical note: create when no
// documentation was fetched or written this session, update otherwise.
// silent suppresses the loading flag so autosave never flickers the
// UI; failures in silent mode land in the error field without forcing
// an alert.
func (s *Store) AddDocumentation(ctx context.Context, doc models.Documentation, silent bool) Result {
	s.mu.RLock()
	current := s.current
	existing := s.documentation
	s.mu.RUnlock()
	if current == nil {
		return fail(MsgNoActiveSession)
	}

	if !silent {
		s.setLoading(true)
		defer s.setLoading(false)
	}

	doc.AppointmentID = current.AppointmentID
	var (
		saved *models.Documentation
		err   error
	)
	if existing == nil {
		saved, err = s.backend.CreateDocumentation(ctx, doc)
	} else {
		doc.ID = existing.ID
		saved, err = s.backend.UpdateDocumentation(ctx, doc)
	}
	if err != nil {
		msg := NormalizeMessage(api.BackendMessage(err))
		s.setError(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.documentation = saved
	s.mu.Unlock()
	return ok()
}

// StartTimer begins (or restarts) the countdown. Any previous run is
// cancelled first, so repeated calls never stack tickers. Reaching
// zero stops the ticking but does not end the session: expiry is
// advisory, the end decision belongs to the doctor.
func (s *Store) StartTimer() {
	s.timer.Start(func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.timeRemaining > 0 {
			s.timeRemaining--
		}
		return s.timeRemaining > 0
	})
}

// StopTimer cancels the countdown without touching session state.
func (s *Store) StopTimer() {
	s.timer.Cancel()
}

// TimerRunning reports whether the countdown is ticking.
func (s *Store) TimerRunning() bool {
	return s.timer.Running()
}

// ClearError resets the last error message.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
}

// Reset stops the timer and clears all session-scoped state. The timer
// stops first so no late tick mutates state after the logical reset.
func (s *Store) Reset() {
	s.timer.Cancel()
	s.mu.Lock()
	s.current = nil
	s.patient = nil
	s.prescriptions = nil
	s.labTests = nil
	s.documentation = nil
	s.medicalRecord = nil
	s.timeRemaining = 0
	s.lastError = ""
	s.mu.Unlock()
}

// Current returns the active session, or nil.
func (s *Store) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// Patient returns the current patient snapshot, or nil.
func (s *Store) Patient() *models.PatientInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.patient == nil {
		return nil
	}
	copied := *s.patient
	return &copied
}

// TimeRemaining returns the countdown value in seconds.
func (s *Store) TimeRemaining() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeRemaining
}

// Prescriptions returns the prescriptions created this session.
func (s *Store) Prescriptions() []models.Prescription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Prescription(nil), s.prescriptions...)
}

// LabTests returns the lab prescriptions created this session.
func (s *Store) LabTests() []models.LabPrescription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.LabPrescription(nil), s.labTests...)
}

// Documentation returns the session's clinical note, or nil.
func (s *Store) Documentation() *models.Documentation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.documentation == nil {
		return nil
	}
	copied := *s.documentation
	return &copied
}

// MedicalRecord returns the fetched patient record, or nil.
func (s *Store) MedicalRecord() *models.MedicalRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.medicalRecord
}

// Loading reports whether a non-silent operation is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError returns the most recent failure message, empty when none.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.lastError = msg
	s.mu.Unlock()
}

// buildSession assembles the session and patient snapshot from the
// backend payload, with the appointment supplying fallbacks.
func (s *Store) buildSession(appointmentID string, payload *models.SessionPayload, appt *models.Appointment) (*models.Session, *models.PatientInfo) {
	duration := payload.Duration
	if duration <= 0 && appt != nil {
		duration = appt.DurationMinutes
	}
	if duration <= 0 {
		duration = s.defaultDuration
	}

	start, err := timeutil.ParseUTC(payload.StartTime)
	if err != nil && appt != nil {
		start, err = timeutil.CombineDateTime(appt.Date, appt.TimeOfDay)
	}
	if err != nil || start.IsZero() {
		// Degraded: neither the response nor the appointment carried a
		// usable start, count down from now.
		start = s.now().UTC()
		s.logger.Warn("session start time missing, falling back to now",
			zap.String("appointmentId", appointmentID))
	}

	sess := &models.Session{
		SessionID:         payload.SessionID,
		AppointmentID:     appointmentID,
		Status:            payload.Status,
		StartTime:         start,
		DurationMinutes:   duration,
		CalculatedEndTime: start.Add(time.Duration(duration) * time.Minute),
	}

	phone := payload.PatientPhone
	if phone == "" && appt != nil {
		phone = appt.PatientPhone
	}
	patient := &models.PatientInfo{
		PatientID:       payload.PatientID,
		PatientFullName: payload.PatientName,
		PatientAge:      payload.PatientAge,
		PhoneNumber:     phone,
		ProfileImageURL: payload.ProfileImageURL,
	}
	return sess, patient
}
