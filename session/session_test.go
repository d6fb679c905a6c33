package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"shuryan/api"
	"shuryan/models"
)

// manualTicks is a deterministic tick source: each run gets a fresh
// buffered channel and the release counters expose how many runs are
// alive.
type manualTicks struct {
	mu       sync.Mutex
	ch       chan time.Time
	created  int
	released int
}

func (m *manualTicks) source() (<-chan time.Time, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ch = make(chan time.Time, 64)
	m.created++
	return m.ch, func() {
		m.mu.Lock()
		m.released++
		m.mu.Unlock()
	}
}

func (m *manualTicks) tick(n int) {
	m.mu.Lock()
	ch := m.ch
	m.mu.Unlock()
	for i := 0; i < n; i++ {
		ch <- time.Now()
	}
}

func (m *manualTicks) active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created - m.released
}

// fakeBackend is an in-memory Backend with per-operation counters.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	startPayload  *models.SessionPayload
	startErr      error
	activePayload *models.SessionPayload
	activeErr     error
	endErr        error

	doc          *models.Documentation
	docErr       error
	createDocErr error

	record    *models.MedicalRecord
	recordErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (f *fakeBackend) count(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeBackend) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) StartSession(ctx context.Context, appointmentID string) (*models.SessionPayload, error) {
	f.count("startSession")
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.startPayload, nil
}

func (f *fakeBackend) GetActiveSession(ctx context.Context, appointmentID string) (*models.SessionPayload, error) {
	f.count("getActiveSession")
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	return f.activePayload, nil
}

func (f *fakeBackend) EndSession(ctx context.Context, appointmentID string) error {
	f.count("endSession")
	return f.endErr
}

func (f *fakeBackend) GetSessionDocumentation(ctx context.Context, appointmentID string) (*models.Documentation, error) {
	f.count("getDocumentation")
	if f.docErr != nil {
		return nil, f.docErr
	}
	return f.doc, nil
}

func (f *fakeBackend) CreateDocumentation(ctx context.Context, doc models.Documentation) (*models.Documentation, error) {
	f.count("createDocumentation")
	if f.createDocErr != nil {
		return nil, f.createDocErr
	}
	created := doc
	created.ID = "doc-1"
	return &created, nil
}

func (f *fakeBackend) UpdateDocumentation(ctx context.Context, doc models.Documentation) (*models.Documentation, error) {
	f.count("updateDocumentation")
	updated := doc
	return &updated, nil
}

func (f *fakeBackend) CreatePrescription(ctx context.Context, p models.Prescription) (*models.Prescription, error) {
	f.count("createPrescription")
	created := p
	created.ID = "rx-1"
	return &created, nil
}

func (f *fakeBackend) CreateLabPrescription(ctx context.Context, p models.LabPrescription) (*models.LabPrescription, error) {
	f.count("createLabPrescription")
	created := p
	created.ID = "lab-1"
	return &created, nil
}

func (f *fakeBackend) GetPatientMedicalRecord(ctx context.Context, patientID string) (*models.MedicalRecord, error) {
	f.count("getMedicalRecord")
	if f.recordErr != nil {
		return nil, f.recordErr
	}
	if f.record != nil {
		return f.record, nil
	}
	return &models.MedicalRecord{PatientID: patientID}, nil
}

var _ Backend = (*fakeBackend)(nil)
var _ Backend = (*api.Client)(nil)

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

// fixedClock returns a controllable now function.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) get() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(backend Backend, ticks *manualTicks, clock *fixedClock) *Store {
	opts := StoreOptions{
		Backend:  backend,
		DoctorID: "doc-77",
	}
	if ticks != nil {
		opts.TickSource = ticks.source
	}
	if clock != nil {
		opts.Now = clock.get
	}
	return NewStore(opts)
}
