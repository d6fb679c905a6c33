// Package directory implements the doctor and patient list stores:
// filter criteria, pagination cursors and the derived filtered views
// the listing screens render.
package directory

import (
	"context"
	"strings"
	"sync"

	"shuryan/api"
	"shuryan/models"

	"go.uber.org/zap"
)

// Result is the uniform envelope the list stores return from network
// operations.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func ok() Result           { return Result{Success: true} }
func fail(m string) Result { return Result{Success: false, Error: m} }

const msgListFailure = "تعذر تحميل القائمة، يرجى المحاولة مرة أخرى"

// DoctorLister is the slice of the API the doctors store consumes.
type DoctorLister interface {
	ListDoctors(ctx context.Context, filters api.DoctorFilters, pageNumber, pageSize int) (*models.DoctorPage, error)
}

// DoctorsStore holds the doctor directory filters and pagination
// cursor. Filtering is server driven: every filter change resets the
// cursor to page 1 and refetches.
type DoctorsStore struct {
	client   DoctorLister
	logger   *zap.Logger
	pageSize int

	mu         sync.RWMutex
	filters    api.DoctorFilters
	pageNumber int
	pagination models.Pagination
	doctors    []models.Doctor
	filtered   []models.Doctor
	loading    bool
	lastError  string
}

// NewDoctorsStore builds a doctors store.
func NewDoctorsStore(client DoctorLister, pageSize int, logger *zap.Logger) *DoctorsStore {
	if pageSize <= 0 {
		pageSize = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DoctorsStore{
		client:     client,
		logger:     logger,
		pageSize:   pageSize,
		pageNumber: 1,
	}
}

// Fetch loads the current page with the current filters.
func (s *DoctorsStore) Fetch(ctx context.Context) Result {
	s.mu.Lock()
	s.loading = true
	filters := s.filters
	pageNumber := s.pageNumber
	s.mu.Unlock()

	page, err := s.client.ListDoctors(ctx, filters, pageNumber, s.pageSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastError = msgListFailure
		s.logger.Warn("doctor listing failed", zap.Int("page", pageNumber), zap.Error(err))
		return fail(msgListFailure)
	}
	s.lastError = ""
	s.doctors = page.Doctors
	// Server-side filtering is the primary path, so the filtered view
	// is the fetched page as-is.
	s.filtered = page.Doctors
	s.pagination = page.Pagination
	return ok()
}

// SetSearchTerm updates the search filter and refetches from page 1.
func (s *DoctorsStore) SetSearchTerm(ctx context.Context, term string) Result {
	return s.applyFilter(ctx, func(f *api.DoctorFilters) { f.SearchTerm = term })
}

// SetSpecialty updates the specialty filter and refetches from page 1.
func (s *DoctorsStore) SetSpecialty(ctx context.Context, specialty string) Result {
	return s.applyFilter(ctx, func(f *api.DoctorFilters) { f.MedicalSpecialty = specialty })
}

// SetGovernorate updates the governorate filter and refetches from
// page 1.
func (s *DoctorsStore) SetGovernorate(ctx context.Context, governorate string) Result {
	return s.applyFilter(ctx, func(f *api.DoctorFilters) { f.Governorate = governorate })
}

// SetMinRating updates the rating floor and refetches from page 1.
func (s *DoctorsStore) SetMinRating(ctx context.Context, rating float64) Result {
	return s.applyFilter(ctx, func(f *api.DoctorFilters) { f.MinRating = rating })
}

// SetPriceRange updates the price range and refetches from page 1.
func (s *DoctorsStore) SetPriceRange(ctx context.Context, minPrice, maxPrice float64) Result {
	return s.applyFilter(ctx, func(f *api.DoctorFilters) {
		f.MinPrice = minPrice
		f.MaxPrice = maxPrice
	})
}

// SetAvailableToday updates the availability flag and refetches from
// page 1.
func (s *DoctorsStore) SetAvailableToday(ctx context.Context, available bool) Result {
	return s.applyFilter(ctx, func(f *api.DoctorFilters) { f.AvailableToday = available })
}

// ClearFilters drops every filter and refetches from page 1.
func (s *DoctorsStore) ClearFilters(ctx context.Context) Result {
	return s.applyFilter(ctx, func(f *api.DoctorFilters) { *f = api.DoctorFilters{} })
}

// applyFilter mutates the criteria, resets the cursor to page 1 and
// refetches.
func (s *DoctorsStore) applyFilter(ctx context.Context, mutate func(*api.DoctorFilters)) Result {
	s.mu.Lock()
	mutate(&s.filters)
	s.pageNumber = 1
	s.mu.Unlock()
	return s.Fetch(ctx)
}

// GoToNextPage advances the cursor when a next page exists.
func (s *DoctorsStore) GoToNextPage(ctx context.Context) Result {
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
func (s *DoctorsStore) GoToPreviousPage(ctx context.Context) Result {
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
func (s *DoctorsStore) GoToPage(ctx context.Context, page int) Result {
	s.mu.Lock()
	if page < 1 || (s.pagination.TotalPages > 0 && page > s.pagination.TotalPages) {
		s.mu.Unlock()
		return ok()
	}
	s.pageNumber = page
	s.mu.Unlock()
	return s.Fetch(ctx)
}

// Doctors returns the raw server page.
func (s *DoctorsStore) Doctors() []models.Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Doctor(nil), s.doctors...)
}

// FilteredDoctors returns the filtered view the listing renders.
func (s *DoctorsStore) FilteredDoctors() []models.Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Doctor(nil), s.filtered...)
}

// FilterLocally applies the current criteria to the loaded page
// client-side. The default path is server filtering; this exists for
// views that re-narrow an already fetched page without a round trip.
func (s *DoctorsStore) FilterLocally() []models.Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Doctor
	term := strings.ToLower(strings.TrimSpace(s.filters.SearchTerm))
	for _, d := range s.doctors {
		if term != "" && !strings.Contains(strings.ToLower(d.FullName), term) &&
			!strings.Contains(strings.ToLower(d.MedicalSpecialty), term) {
			continue
		}
		if s.filters.MedicalSpecialty != "" && d.MedicalSpecialty != s.filters.MedicalSpecialty {
			continue
		}
		if s.filters.Governorate != "" && d.Governorate != s.filters.Governorate {
			continue
		}
		if s.filters.MinRating > 0 && d.Rating < s.filters.MinRating {
			continue
		}
		if s.filters.MinPrice > 0 && d.SessionPrice < s.filters.MinPrice {
			continue
		}
		if s.filters.MaxPrice > 0 && d.SessionPrice > s.filters.MaxPrice {
			continue
		}
		if s.filters.AvailableToday && !d.AvailableToday {
			continue
		}
		out = append(out, d)
	}
	return out
}

// PageNumber returns the current cursor position.
func (s *DoctorsStore) PageNumber() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pageNumber
}

// Pagination returns the last fetched cursor metadata.
func (s *DoctorsStore) Pagination() models.Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

// Filters returns the current criteria.
func (s *DoctorsStore) Filters() api.DoctorFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// Loading reports whether a fetch is in flight.
func (s *DoctorsStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError returns the most recent failure message, empty when none.
func (s *DoctorsStore) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}
