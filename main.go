// File: shuryan/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"shuryan/api"
	"shuryan/config"
	"shuryan/directory"
	"shuryan/models"
	"shuryan/prefs"
	"shuryan/session"
	"shuryan/timeutil"
	"shuryan/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	client := api.New(config.AppConfig.APIBaseURL, api.Options{
		Timeout:        config.APITimeout(),
		RequestsPerSec: config.AppConfig.APIRequestsPerSec,
		Burst:          config.AppConfig.APIBurst,
		Logger:         logger,
	})
	token := os.Getenv("SHURYAN_TOKEN")
	if token != "" {
		client.SetToken(token)
	}

	store := session.NewStore(session.StoreOptions{
		Backend:                client,
		DoctorID:               api.DoctorIDFromToken(token),
		Logger:                 logger,
		DefaultDurationMinutes: config.AppConfig.DefaultSessionMinutes,
	})
	manager := session.NewManager(store, logger)

	preferences, err := prefs.Open(config.AppConfig.PrefsDBPath)
	if err != nil {
		logger.Sugar().Warnf("preference store unavailable: %v", err)
		preferences = nil
	} else {
		defer preferences.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "doctors":
		listDoctors(ctx, client)
	case "patients":
		listPatients(ctx, client, preferences)
	case "session":
		runSession(ctx, store, manager)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  shuryan doctors [search term]
  shuryan patients
  shuryan session start|status|end <appointment-id>`)
}

func listDoctors(ctx context.Context, client *api.Client) {
	store := directory.NewDoctorsStore(client, config.AppConfig.DefaultPageSize, utils.GetLogger())
	var res directory.Result
	if len(os.Args) > 2 {
		res = store.SetSearchTerm(ctx, os.Args[2])
	} else {
		res = store.Fetch(ctx)
	}
	if !res.Success {
		fmt.Fprintln(os.Stderr, res.Error)
		os.Exit(1)
	}
	for _, d := range store.FilteredDoctors() {
		fmt.Printf("%-30s %-20s %-12s %.1f* %.0f EGP\n",
			d.FullName, d.MedicalSpecialty, d.Governorate, d.Rating, d.SessionPrice)
	}
	pg := store.Pagination()
	fmt.Printf("page %d/%d (%d doctors)\n", pg.PageNumber, pg.TotalPages, pg.TotalCount)
}

func listPatients(ctx context.Context, client *api.Client, preferences *prefs.Store) {
	store := directory.NewPatientsStore(directory.PatientsStoreOptions{
		Client:   client,
		Prefs:    preferences,
		PageSize: config.AppConfig.DefaultPageSize,
		Logger:   utils.GetLogger(),
	})
	if res := store.Fetch(ctx); !res.Success {
		fmt.Fprintln(os.Stderr, res.Error)
		os.Exit(1)
	}
	for _, p := range store.FilteredPatients() {
		fmt.Printf("%-30s %3d yrs  last visit %s  (%d sessions)\n",
			p.FullName, p.Age, p.LastVisit.Format("2006-01-02"), p.SessionCount)
	}
	pg := store.Pagination()
	fmt.Printf("page %d/%d (%d patients)\n", pg.PageNumber, pg.TotalPages, pg.TotalCount)
}

func runSession(ctx context.Context, store *session.Store, manager *session.Manager) {
	if len(os.Args) < 4 {
		usage()
		os.Exit(2)
	}
	action, appointmentID := os.Args[2], os.Args[3]

	switch action {
	case "start":
		outcome := manager.StartOrResumeSession(ctx, models.Appointment{ID: appointmentID})
		if !outcome.Success {
			fmt.Fprintln(os.Stderr, outcome.Message)
			os.Exit(1)
		}
		printSession(store, outcome.IsCompleted, outcome.Resumed)
	case "status":
		res := store.GetActiveSession(ctx, appointmentID, nil)
		if !res.Success {
			fmt.Fprintln(os.Stderr, res.Error)
			os.Exit(1)
		}
		if res.Session == nil {
			fmt.Println("no session for this appointment")
			return
		}
		printSession(store, res.IsCompleted, true)
	case "end":
		if res := store.GetActiveSession(ctx, appointmentID, nil); !res.Success || res.Session == nil {
			fmt.Fprintln(os.Stderr, session.MsgNoActiveSession)
			os.Exit(1)
		}
		if res := store.EndSession(ctx); !res.Success {
			fmt.Fprintln(os.Stderr, res.Error)
			os.Exit(1)
		}
		fmt.Println("session ended")
	default:
		usage()
		os.Exit(2)
	}
}

func printSession(store *session.Store, completed, resumed bool) {
	sess := store.Current()
	patient := store.Patient()
	if sess == nil {
		return
	}
	state := "started"
	if resumed {
		state = "resumed"
	}
	if completed {
		state = "completed (read-only)"
	}
	fmt.Printf("session %s: appointment %s, status %s\n", state, sess.AppointmentID, sess.Status)
	if patient != nil {
		fmt.Printf("patient: %s (%d) %s\n", patient.PatientFullName, patient.PatientAge, patient.PhoneNumber)
	}
	if !completed {
		fmt.Printf("remaining: %s\n", timeutil.FormatCountdown(store.TimeRemaining()))
	}
}
