package directory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"shuryan/models"
	"shuryan/prefs"

	"go.uber.org/zap"
)

// Patient list filter values.
const (
	FilterAll      = "all"
	FilterRecent   = "recent"   // last visit within 30 days
	FilterArchived = "archived" // last visit more than 90 days ago

	SortByLastVisit    = "lastVisit"
	SortByName         = "name"
	SortBySessionCount = "sessionCount"
)

const patientsPrefsKey = "patients.filters"

// patientPrefs is the slice of state persisted across restarts.
type patientPrefs struct {
	FilterStatus string `json:"filterStatus"`
	SortBy       string `json:"sortBy"`
}

// PatientLister is the slice of the API the patients store consumes.
type PatientLister interface {
	ListPatients(ctx context.Context, pageNumber, pageSize int) (*models.PatientPage, error)
}

// PatientsStore holds the doctor's patient list. Fetching is paginated
// server-side; search, status filtering and sorting are applied
// client-side over the currently loaded page only. Filters therefore
// do not see patients outside that page, a known limitation that
// stands until the backend grows patient filtering.
type PatientsStore struct {
	client   PatientLister
	logger   *zap.Logger
	prefs    *prefs.Store
	pageSize int
	now      func() time.Time

	mu           sync.RWMutex
	pageNumber   int
	pagination   models.Pagination
	patients     []models.Patient
	searchTerm   string
	filterStatus string
	sortBy       string
	loading      bool
	lastError    string
}

// PatientsStoreOptions configure a PatientsStore. Client is required;
// Prefs is optional (nil disables persistence).
type PatientsStoreOptions struct {
	Client   PatientLister
	Prefs    *prefs.Store
	PageSize int
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewPatientsStore builds a patients store, restoring any persisted
// filter/sort preference.
func NewPatientsStore(opts PatientsStoreOptions) *PatientsStore {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &PatientsStore{
		client:       opts.Client,
		logger:       opts.Logger,
		prefs:        opts.Prefs,
		pageSize:     opts.PageSize,
		now:          opts.Now,
		pageNumber:   1,
		filterStatus: FilterAll,
		sortBy:       SortByLastVisit,
	}
	s.restorePrefs()
	return s
}

func (s *PatientsStore) restorePrefs() {
	if s.prefs == nil {
		return
	}
	var saved patientPrefs
	err := s.prefs.Load(patientsPrefsKey, &saved)
	if errors.Is(err, prefs.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("failed to restore patient list preferences", zap.Error(err))
		return
	}
	if saved.FilterStatus != "" {
		s.filterStatus = saved.FilterStatus
	}
	if saved.SortBy != "" {
		s.sortBy = saved.SortBy
	}
}

func (s *PatientsStore) persistPrefs() {
	if s.prefs == nil {
		return
	}
	s.mu.RLock()
	saved := patientPrefs{FilterStatus: s.filterStatus, SortBy: s.sortBy}
	s.mu.RUnlock()
	if err := s.prefs.Save(patientsPrefsKey, saved); err != nil {
		s.logger.Warn("failed to persist patient list preferences", zap.Error(err))
	}
}

// Fetch loads the current page of patients with completed
// appointments.
func (s *PatientsStore) Fetch(ctx context.Context) Result {
	s.mu.Lock()
	s.loading = true
	pageNumber := s.pageNumber
	s.mu.Unlock()

	page, err := s.client.ListPatients(ctx, pageNumber, s.pageSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastError = msgListFailure
		s.logger.Warn("patient listing failed", zap.Int("page", pageNumber), zap.Error(err))
		return fail(msgListFailure)
	}
	s.lastError = ""
	s.patients = page.Patients
	s.pagination = page.Pagination
	return ok()
}

// SetSearchTerm updates the client-side search term.
func (s *PatientsStore) SetSearchTerm(term string) {
	s.mu.Lock()
	s.searchTerm = term
	s.mu.Unlock()
}

// SetFilterStatus updates the status filter (all/recent/archived) and
// persists it.
func (s *PatientsStore) SetFilterStatus(status string) {
	switch status {
	case FilterAll, FilterRecent, FilterArchived:
	default:
		status = FilterAll
	}
	s.mu.Lock()
	s.filterStatus = status
	s.mu.Unlock()
	s.persistPrefs()
}

// SetSortBy updates the sort key and persists it.
func (s *PatientsStore) SetSortBy(sortBy string) {
	switch sortBy {
	case SortByLastVisit, SortByName, SortBySessionCount:
	default:
		sortBy = SortByLastVisit
	}
	s.mu.Lock()
	s.sortBy = sortBy
	s.mu.Unlock()
	s.persistPrefs()
}

// FilteredPatients returns the loaded page narrowed by search term and
// status filter, in the selected order.
func (s *PatientsStore) FilteredPatients() []models.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	term := strings.ToLower(strings.TrimSpace(s.searchTerm))

	var out []models.Patient
	for _, p := range s.patients {
		if term != "" && !strings.Contains(strings.ToLower(p.FullName), term) &&
			!strings.Contains(p.PhoneNumber, term) {
			continue
		}
		switch s.filterStatus {
		case FilterRecent:
			if now.Sub(p.LastVisit) > 30*24*time.Hour {
				continue
			}
		case FilterArchived:
			if now.Sub(p.LastVisit) <= 90*24*time.Hour {
				continue
			}
		}
		out = append(out, p)
	}

	switch s.sortBy {
	case SortByName:
		sort.SliceStable(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	case SortBySessionCount:
		sort.SliceStable(out, func(i, j int) bool { return out[i].SessionCount > out[j].SessionCount })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].LastVisit.After(out[j].LastVisit) })
	}
	return out
}

// GoToNextPage advances the cursor when a next page exists.
func (s *PatientsStore) GoToNextPage(ctx context.Context) Result {
	s.mu.Lock()
	if !s.pagination.HasNextPage {
		s.mu.Unlock()
		return ok()
	}
	s.pageNumber++
	s.mu.Unlock()
	return s.Fetch(ctx)
}

// GoToPreviousPage moves the cursor back when a previous page exists.
func (s *PatientsStore) GoToPreviousPage(ctx context.Context) Result {
	s.mu.Lock()
	if !s.pagination.HasPreviousPage || s.pageNumber <= 1 {
		s.mu.Unlock()
		return ok()
	}
	s.pageNumber--
	s.mu.Unlock()
	return s.Fetch(ctx)
}

// GoToPage jumps to an absolute page, bounds-checked against the known
// total.
func (s *PatientsStore) GoToPage(ctx context.Context, page int) Result {
	s.mu.Lock()
	if page < 1 || (s.pagination.TotalPages > 0 && page > s.pagination.TotalPages) {
		s.mu.Unlock()
		return ok()
	}
	s.pageNumber = page
	s.mu.Unlock()
	return s.Fetch(ctx)
}

// Patients returns the raw loaded page.
func (s *PatientsStore) Patients() []models.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Patient(nil), s.patients...)
}

// PageNumber returns the current cursor position.
func (s *PatientsStore) PageNumber() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pageNumber
}

// Pagination returns the last fetched cursor metadata.
func (s *PatientsStore) Pagination() models.Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

// FilterStatus returns the active status filter.
func (s *PatientsStore) FilterStatus() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterStatus
}

// SortBy returns the active sort key.
func (s *PatientsStore) SortBy() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortBy
}

// Loading reports whether a fetch is in flight.
func (s *PatientsStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError returns the most recent failure message, empty when none.
func (s *PatientsStore) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}
