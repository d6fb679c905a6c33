package directory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"shuryan/api"
	"shuryan/apitest"
	"shuryan/models"
	"shuryan/prefs"
)

var patientsNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func seedPatients(srv *apitest.Server) {
	srv.SeedPatients([]models.Patient{
		{ID: "p-1", FullName: "Mona Adel", PhoneNumber: "01011112222",
			LastVisit: patientsNow.AddDate(0, 0, -3), SessionCount: 8},
		{ID: "p-2", FullName: "Khaled Samir", PhoneNumber: "01233334444",
			LastVisit: patientsNow.AddDate(0, 0, -45), SessionCount: 2},
		{ID: "p-3", FullName: "Sara Hassan", PhoneNumber: "01555556666",
			LastVisit: patientsNow.AddDate(0, 0, -120), SessionCount: 5},
		{ID: "p-4", FullName: "Omar Farouk", PhoneNumber: "01077778888",
			LastVisit: patientsNow.AddDate(0, 0, -10), SessionCount: 1},
	})
}

func newPatientsFixture(t *testing.T, store *prefs.Store) *PatientsStore {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	seedPatients(srv)

	client := api.New(srv.URL, api.Options{RequestsPerSec: 1000})
	ps := NewPatientsStore(PatientsStoreOptions{
		Client:   client,
		Prefs:    store,
		PageSize: 10,
		Now:      func() time.Time { return patientsNow },
	})
	if res := ps.Fetch(context.Background()); !res.Success {
		t.Fatalf("Fetch failed: %s", res.Error)
	}
	return ps
}

func TestPatientsDefaultOrder(t *testing.T) {
	store := newPatientsFixture(t, nil)

	rows := store.FilteredPatients()
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	// Most recent visit first.
	want := []string{"p-1", "p-4", "p-2", "p-3"}
	for i, id := range want {
		if rows[i].ID != id {
			t.Errorf("rows[%d] = %s, want %s", i, rows[i].ID, id)
		}
	}
}

func TestPatientsRecentFilter(t *testing.T) {
	store := newPatientsFixture(t, nil)

	store.SetFilterStatus(FilterRecent)
	rows := store.FilteredPatients()
	if len(rows) != 2 {
		t.Fatalf("recent rows = %d, want 2", len(rows))
	}
	for _, p := range rows {
		if patientsNow.Sub(p.LastVisit) > 30*24*time.Hour {
			t.Errorf("stale patient in recent view: %s", p.ID)
		}
	}
}

func TestPatientsArchivedFilter(t *testing.T) {
	store := newPatientsFixture(t, nil)

	store.SetFilterStatus(FilterArchived)
	rows := store.FilteredPatients()
	if len(rows) != 1 || rows[0].ID != "p-3" {
		t.Errorf("archived rows = %+v, want only p-3", rows)
	}
}

func TestPatientsSearchByNameAndPhone(t *testing.T) {
	store := newPatientsFixture(t, nil)

	store.SetSearchTerm("sara")
	rows := store.FilteredPatients()
	if len(rows) != 1 || rows[0].ID != "p-3" {
		t.Errorf("name search rows = %+v, want only p-3", rows)
	}

	store.SetSearchTerm("0123333")
	rows = store.FilteredPatients()
	if len(rows) != 1 || rows[0].ID != "p-2" {
		t.Errorf("phone search rows = %+v, want only p-2", rows)
	}
}

func TestPatientsSorting(t *testing.T) {
	store := newPatientsFixture(t, nil)

	store.SetSortBy(SortByName)
	rows := store.FilteredPatients()
	if rows[0].ID != "p-2" || rows[len(rows)-1].ID != "p-3" {
		t.Errorf("name order = %+v", rows)
	}

	store.SetSortBy(SortBySessionCount)
	rows = store.FilteredPatients()
	if rows[0].ID != "p-1" || rows[len(rows)-1].ID != "p-4" {
		t.Errorf("session-count order = %+v", rows)
	}
}

func TestPatientsInvalidFilterFallsBack(t *testing.T) {
	store := newPatientsFixture(t, nil)

	store.SetFilterStatus("bogus")
	if got := store.FilterStatus(); got != FilterAll {
		t.Errorf("FilterStatus = %q, want %q", got, FilterAll)
	}
	store.SetSortBy("bogus")
	if got := store.SortBy(); got != SortByLastVisit {
		t.Errorf("SortBy = %q, want %q", got, SortByLastVisit)
	}
}

func TestPatientsPrefsSurviveRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	db, err := prefs.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	store := newPatientsFixture(t, db)
	store.SetFilterStatus(FilterArchived)
	store.SetSortBy(SortByName)
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db2, err := prefs.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()

	restored := newPatientsFixture(t, db2)
	if got := restored.FilterStatus(); got != FilterArchived {
		t.Errorf("restored FilterStatus = %q, want %q", got, FilterArchived)
	}
	if got := restored.SortBy(); got != SortByName {
		t.Errorf("restored SortBy = %q, want %q", got, SortByName)
	}
}
