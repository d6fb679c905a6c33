package directory

import (
	"context"
	"fmt"
	"testing"

	"shuryan/api"
	"shuryan/apitest"
	"shuryan/models"
)

func seedDoctors(srv *apitest.Server, n int) {
	doctors := make([]models.Doctor, 0, n)
	for i := 0; i < n; i++ {
		specialty := "Cardiology"
		if i%2 == 1 {
			specialty = "Dermatology"
		}
		doctors = append(doctors, models.Doctor{
			ID:               fmt.Sprintf("dr-%02d", i),
			FullName:         fmt.Sprintf("Doctor %02d", i),
			MedicalSpecialty: specialty,
			Governorate:      "Cairo",
			Rating:           3.5 + float64(i%3)*0.5,
			SessionPrice:     200 + float64(i)*10,
			AvailableToday:   i%4 == 0,
		})
	}
	srv.SeedDoctors(doctors)
}

func newDoctorsFixture(t *testing.T, total, pageSize int) (*apitest.Server, *DoctorsStore) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	seedDoctors(srv, total)

	client := api.New(srv.URL, api.Options{RequestsPerSec: 1000})
	return srv, NewDoctorsStore(client, pageSize, nil)
}

func TestDoctorsFetchFirstPage(t *testing.T) {
	_, store := newDoctorsFixture(t, 25, 10)

	if res := store.Fetch(context.Background()); !res.Success {
		t.Fatalf("Fetch failed: %s", res.Error)
	}
	if got := len(store.Doctors()); got != 10 {
		t.Errorf("page length = %d, want 10", got)
	}

	pg := store.Pagination()
	if pg.TotalCount != 25 || pg.TotalPages != 3 {
		t.Errorf("pagination = %+v", pg)
	}
	if !pg.HasNextPage || pg.HasPreviousPage {
		t.Errorf("page 1 cursor flags = %+v", pg)
	}
}

func TestDoctorsPageNavigation(t *testing.T) {
	srv, store := newDoctorsFixture(t, 25, 10)
	ctx := context.Background()

	if res := store.Fetch(ctx); !res.Success {
		t.Fatalf("Fetch failed: %s", res.Error)
	}
	if res := store.GoToNextPage(ctx); !res.Success {
		t.Fatalf("GoToNextPage failed: %s", res.Error)
	}
	if store.PageNumber() != 2 {
		t.Errorf("PageNumber = %d, want 2", store.PageNumber())
	}
	if got := store.Doctors()[0].ID; got != "dr-10" {
		t.Errorf("first row on page 2 = %s, want dr-10", got)
	}

	if res := store.GoToPreviousPage(ctx); !res.Success {
		t.Fatalf("GoToPreviousPage failed: %s", res.Error)
	}
	if store.PageNumber() != 1 {
		t.Errorf("PageNumber = %d, want 1", store.PageNumber())
	}

	// On page 1 with no previous page the guard must skip the fetch.
	before := srv.CallCount("listDoctors")
	store.GoToPreviousPage(ctx)
	if srv.CallCount("listDoctors") != before {
		t.Error("previous-page on page 1 must not hit the backend")
	}

	store.GoToPage(ctx, 99)
	if srv.CallCount("listDoctors") != before {
		t.Error("out-of-range page jump must not hit the backend")
	}
	if store.PageNumber() != 1 {
		t.Errorf("PageNumber = %d after rejected jump, want 1", store.PageNumber())
	}
}

func TestDoctorsFilterChangeResetsCursor(t *testing.T) {
	cases := []struct {
		name  string
		apply func(ctx context.Context, s *DoctorsStore) Result
	}{
		{"searchTerm", func(ctx context.Context, s *DoctorsStore) Result {
			return s.SetSearchTerm(ctx, "Doctor")
		}},
		{"specialty", func(ctx context.Context, s *DoctorsStore) Result {
			return s.SetSpecialty(ctx, "Dermatology")
		}},
		{"governorate", func(ctx context.Context, s *DoctorsStore) Result {
			return s.SetGovernorate(ctx, "Cairo")
		}},
		{"minRating", func(ctx context.Context, s *DoctorsStore) Result {
			return s.SetMinRating(ctx, 4.0)
		}},
		{"priceRange", func(ctx context.Context, s *DoctorsStore) Result {
			return s.SetPriceRange(ctx, 200, 400)
		}},
		{"availableToday", func(ctx context.Context, s *DoctorsStore) Result {
			return s.SetAvailableToday(ctx, true)
		}},
		{"clearFilters", func(ctx context.Context, s *DoctorsStore) Result {
			return s.ClearFilters(ctx)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, store := newDoctorsFixture(t, 25, 10)
			ctx := context.Background()

			if res := store.Fetch(ctx); !res.Success {
				t.Fatalf("Fetch failed: %s", res.Error)
			}
			if res := store.GoToNextPage(ctx); !res.Success {
				t.Fatalf("GoToNextPage failed: %s", res.Error)
			}
			if store.PageNumber() != 2 {
				t.Fatalf("PageNumber = %d, want 2", store.PageNumber())
			}

			if res := tc.apply(ctx, store); !res.Success {
				t.Fatalf("filter change failed: %s", res.Error)
			}
			if store.PageNumber() != 1 {
				t.Errorf("filter change must reset to page 1, got %d", store.PageNumber())
			}
		})
	}
}

func TestDoctorsSpecialtyFilterApplied(t *testing.T) {
	_, store := newDoctorsFixture(t, 25, 10)
	ctx := context.Background()

	if res := store.SetSpecialty(ctx, "Dermatology"); !res.Success {
		t.Fatalf("SetSpecialty failed: %s", res.Error)
	}
	rows := store.FilteredDoctors()
	if len(rows) == 0 {
		t.Fatal("no rows matched")
	}
	for _, d := range rows {
		if d.MedicalSpecialty != "Dermatology" {
			t.Errorf("unfiltered row leaked: %+v", d)
		}
	}
}

func TestDoctorsServerSideSearch(t *testing.T) {
	_, store := newDoctorsFixture(t, 25, 10)
	ctx := context.Background()

	if res := store.SetSearchTerm(ctx, "Doctor 07"); !res.Success {
		t.Fatalf("SetSearchTerm failed: %s", res.Error)
	}
	rows := store.FilteredDoctors()
	if len(rows) != 1 || rows[0].ID != "dr-07" {
		t.Errorf("search rows = %+v, want only dr-07", rows)
	}
	pg := store.Pagination()
	if pg.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1", pg.TotalCount)
	}
}

func TestDoctorsClearFilters(t *testing.T) {
	_, store := newDoctorsFixture(t, 25, 10)
	ctx := context.Background()

	if res := store.SetAvailableToday(ctx, true); !res.Success {
		t.Fatalf("SetAvailableToday failed: %s", res.Error)
	}
	if got := store.Pagination().TotalCount; got != 7 {
		t.Errorf("available-today TotalCount = %d, want 7", got)
	}

	if res := store.ClearFilters(ctx); !res.Success {
		t.Fatalf("ClearFilters failed: %s", res.Error)
	}
	if got := store.Pagination().TotalCount; got != 25 {
		t.Errorf("TotalCount after clear = %d, want 25", got)
	}
	if f := store.Filters(); f != (api.DoctorFilters{}) {
		t.Errorf("filters not cleared: %+v", f)
	}
}

func TestDoctorsFetchFailure(t *testing.T) {
	srv, store := newDoctorsFixture(t, 5, 10)
	ctx := context.Background()

	if res := store.Fetch(ctx); !res.Success {
		t.Fatalf("Fetch failed: %s", res.Error)
	}
	srv.Close()

	res := store.Fetch(ctx)
	if res.Success {
		t.Fatal("expected failure once the backend is gone")
	}
	if res.Error != msgListFailure {
		t.Errorf("Error = %q, want %q", res.Error, msgListFailure)
	}
	if store.LastError() != msgListFailure {
		t.Errorf("LastError = %q, want %q", store.LastError(), msgListFailure)
	}
}

func TestDoctorsFilterLocally(t *testing.T) {
	_, store := newDoctorsFixture(t, 10, 10)
	ctx := context.Background()

	if res := store.Fetch(ctx); !res.Success {
		t.Fatalf("Fetch failed: %s", res.Error)
	}

	// Narrow the loaded page without another round trip.
	store.mu.Lock()
	store.filters.MinPrice = 260
	store.mu.Unlock()

	rows := store.FilterLocally()
	for _, d := range rows {
		if d.SessionPrice < 260 {
			t.Errorf("row below price floor: %+v", d)
		}
	}
	if len(rows) != 4 {
		t.Errorf("local rows = %d, want 4", len(rows))
	}
}
