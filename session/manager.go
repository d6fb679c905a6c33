package session

import (
	"context"
	"sync"

	"shuryan/models"

	"go.uber.org/zap"
)

// Manager decides the correct session action for an appointment's
// current status and presents one entry point to UI callers. The store
// is the mechanism, the manager is the policy.
type Manager struct {
	store  *Store
	logger *zap.Logger

	mu      sync.Mutex
	loading map[string]bool
}

// Outcome is the uniform result StartOrResumeSession returns.
type Outcome struct {
	Success     bool            `json:"success"`
	IsCompleted bool            `json:"isCompleted"`
	Resumed     bool            `json:"resumed"`
	Session     *models.Session `json:"data,omitempty"`
	Message     string          `json:"message,omitempty"`
}

// NewManager builds a manager over the given store.
func NewManager(store *Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:   store,
		logger:  logger,
		loading: make(map[string]bool),
	}
}

// StartOrResumeSession classifies the appointment and runs the right
// action: completed appointments are fetched read-only, in-progress
// ones are resumed (start is never called for them), anything else
// starts a new session. The per-appointment loading flag is cleared on
// every path.
func (m *Manager) StartOrResumeSession(ctx context.Context, appt models.Appointment) Outcome {
	if appt.ID == "" {
		return Outcome{Success: false, Message: MsgMissingAppointment}
	}

	m.setLoading(appt.ID, true)
	defer m.setLoading(appt.ID, false)

	switch {
	case appt.Status.IsCompleted():
		res := m.store.GetActiveSession(ctx, appt.ID, &appt)
		if !res.Success {
			return m.failure(appt.ID, res.Error)
		}
		if res.Session == nil {
			m.logger.Warn("appointment marked completed but no session found",
				zap.String("appointmentId", appt.ID))
			return Outcome{Success: false, Message: MsgNoActiveSession}
		}
		return Outcome{Success: true, IsCompleted: true, Session: res.Session}

	case appt.Status.IsInProgress():
		// A session already exists for this appointment; starting a
		// second one must never happen. Rehydrate instead.
		res := m.store.GetActiveSession(ctx, appt.ID, &appt)
		if !res.Success {
			return m.failure(appt.ID, res.Error)
		}
		if res.Session == nil {
			m.logger.Warn("appointment marked in progress but no session found",
				zap.String("appointmentId", appt.ID))
			return Outcome{Success: false, Message: MsgNoActiveSession}
		}
		return Outcome{Success: true, Resumed: true, IsCompleted: res.IsCompleted, Session: res.Session}

	default:
		res := m.store.StartSession(ctx, appt.ID, &appt)
		if !res.Success {
			return m.failure(appt.ID, res.Error)
		}
		return Outcome{Success: true, Session: res.Session}
	}
}

// IsLoading reports whether a session action is in flight for the
// appointment. Keyed per appointment so each card shows its own
// spinner.
func (m *Manager) IsLoading(appointmentID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading[appointmentID]
}

func (m *Manager) setLoading(appointmentID string, v bool) {
	m.mu.Lock()
	if v {
		m.loading[appointmentID] = true
	} else {
		delete(m.loading, appointmentID)
	}
	m.mu.Unlock()
}

func (m *Manager) failure(appointmentID, backendMessage string) Outcome {
	message := NormalizeMessage(backendMessage)
	if IsConflict(backendMessage) {
		m.logger.Info("active session conflict",
			zap.String("appointmentId", appointmentID))
	}
	return Outcome{Success: false, Message: message}
}
