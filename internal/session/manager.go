// Package session owns the lifecycle of the streaming triage channel: at
// most one open channel per manager, opened per subject, with every inbound
// frame validated and folded into the session store. Starting a new session
// is the only cancellation mechanism besides Cancel itself.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/AbsSadhu/AuraTriage/internal/reconcile"
	"github.com/AbsSadhu/AuraTriage/internal/state"
	"github.com/AbsSadhu/AuraTriage/internal/triage"
)

// DefaultTimeout bounds a session from dial to terminal event. The upstream
// behavior had no timeout at all, which left the busy flag stuck when a
// channel stalled; expiry now transitions the session to Errored.
const DefaultTimeout = 2 * time.Minute

// startPayload is the single outbound frame, sent only once the transport
// has signalled readiness (a completed dial). Free text, mixed scripts
// allowed.
type startPayload struct {
	Symptoms string `json:"symptoms"`
}

// activeSession tracks the one channel this manager may have open. The
// token is how trailing messages from a superseded channel are told apart
// from the live one.
type activeSession struct {
	token      string
	subjectID  string
	cancel     context.CancelFunc
	conn       *websocket.Conn
	selfClosed bool
}

// Manager drives the session state machine
// Idle -> Connecting -> Streaming -> {Completed | Errored}.
// Re-entering Connecting happens only through an explicit Start, which
// first invalidates and closes whatever channel was active.
type Manager struct {
	store     *state.Store
	rec       *reconcile.Reconciler
	socketURL string
	timeout   time.Duration

	mu      sync.Mutex
	active  *activeSession
	onEvent func(triage.Event)
}

func NewManager(store *state.Store, rec *reconcile.Reconciler, socketURL string, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{
		store:     store,
		rec:       rec,
		socketURL: strings.TrimRight(socketURL, "/"),
		timeout:   timeout,
	}
}

// SetEventHook registers a callback invoked after each event has been
// reconciled into the store. Used by the console to render updates.
func (m *Manager) SetEventHook(fn func(triage.Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEvent = fn
}

// Active returns the current session token, if any.
func (m *Manager) Active() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return "", false
	}
	return m.active.token, true
}

// Start opens a new triage channel for the subject and sends the symptom
// payload. Any prior channel is invalidated and closed first, so trailing
// messages racing the close are dropped by token mismatch. Returns the new
// session token.
func (m *Manager) Start(ctx context.Context, subjectID, symptoms string) (string, error) {
	if subjectID == "" {
		return "", errors.New("session: subject id required")
	}

	sctx, cancel := context.WithTimeout(ctx, m.timeout)

	m.mu.Lock()
	m.invalidateLocked()
	sess := &activeSession{
		token:     uuid.New().String(),
		subjectID: subjectID,
		cancel:    cancel,
	}
	m.active = sess
	m.mu.Unlock()

	m.store.SetBusy(true)
	m.store.SetSession(state.SessionConnecting)
	slog.Info("session: starting", "subject", subjectID, "token", sess.token)

	url := fmt.Sprintf("%s/ws/triage/%s", m.socketURL, subjectID)
	conn, _, err := websocket.Dial(sctx, url, nil)
	if err != nil {
		cancel()
		m.failStart(sess)
		return "", fmt.Errorf("dial triage channel: %w", err)
	}

	// The completed dial is the ready-to-send signal; the payload is never
	// queued ahead of it.
	if err := wsjson.Write(sctx, conn, startPayload{Symptoms: symptoms}); err != nil {
		cancel()
		conn.CloseNow()
		m.failStart(sess)
		return "", fmt.Errorf("send symptom payload: %w", err)
	}

	m.mu.Lock()
	if m.active != sess {
		// Superseded while dialing. The replacement owns the store now.
		m.mu.Unlock()
		conn.Close(websocket.StatusNormalClosure, "superseded")
		return sess.token, nil
	}
	sess.conn = conn
	m.mu.Unlock()

	m.store.SetSession(state.SessionStreaming)
	go m.readLoop(sctx, sess, conn)
	return sess.token, nil
}

// Cancel closes the active channel, if any. Intentional teardown: the
// session ends Errored but no failure is reported to the conversation.
func (m *Manager) Cancel() {
	m.mu.Lock()
	had := m.active != nil
	m.invalidateLocked()
	m.mu.Unlock()

	if had {
		m.store.SetBusy(false)
		m.store.SetSession(state.SessionErrored)
		slog.Info("session: cancelled")
	}
}

// invalidateLocked tears down the active session: the token is invalidated
// (m.active cleared) strictly before the close is issued, so a message
// racing the close still fails the token check.
func (m *Manager) invalidateLocked() {
	sess := m.active
	m.active = nil
	if sess == nil {
		return
	}
	sess.selfClosed = true
	sess.cancel()
	if sess.conn != nil {
		sess.conn.Close(websocket.StatusNormalClosure, "superseded")
	}
}

// failStart reports a session that never reached Streaming. Dial errors
// surface to the caller, so no synthetic conversation entry is added here.
func (m *Manager) failStart(sess *activeSession) {
	m.mu.Lock()
	if m.active == sess {
		m.active = nil
	} else {
		// Already superseded; the newer session owns the store.
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.store.SetBusy(false)
	m.store.SetSession(state.SessionErrored)
}

func (m *Manager) readLoop(ctx context.Context, sess *activeSession, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			m.transportEnded(ctx, sess, err)
			return
		}

		ev, derr := triage.Decode(data)
		if derr != nil {
			// Protocol-level tolerance: a malformed frame never terminates
			// the session.
			slog.Warn("session: dropping malformed frame", "error", derr, "subject", sess.subjectID)
			continue
		}

		if !m.deliver(sess, ev) {
			slog.Debug("session: dropping stale event", "type", ev.Type, "token", sess.token)
			conn.CloseNow()
			return
		}

		if ev.Terminal() {
			m.finish(sess, ev)
			return
		}
	}
}

// deliver reconciles one event, provided the session is still the active
// one and not already terminal. Reports whether the event was applied.
func (m *Manager) deliver(sess *activeSession, ev triage.Event) bool {
	m.mu.Lock()
	if m.active != sess || m.active.token != sess.token {
		m.mu.Unlock()
		return false
	}
	hook := m.onEvent
	m.mu.Unlock()

	applied := false
	m.store.Update(func(s *state.State) {
		if s.Session.Terminal() {
			return
		}
		m.rec.Apply(s, ev)
		applied = true
	})
	if applied && hook != nil {
		hook(ev)
	}
	return applied
}

// finish handles an application-level terminal event: the channel is
// force-closed and the state machine lands on Completed or Errored.
func (m *Manager) finish(sess *activeSession, ev triage.Event) {
	m.mu.Lock()
	wasActive := m.active == sess
	if wasActive {
		m.active = nil
	}
	sess.selfClosed = true
	m.mu.Unlock()

	sess.cancel()
	sess.conn.Close(websocket.StatusNormalClosure, "session over")

	if !wasActive {
		// Superseded between reconciling the terminal event and teardown,
		// which the event hook makes reachable in a single goroutine. The
		// replacement session owns the store now.
		return
	}

	if ev.Type == triage.KindTriageComplete {
		m.store.SetSession(state.SessionCompleted)
		slog.Info("session: completed", "subject", sess.subjectID)
	} else {
		m.store.SetSession(state.SessionErrored)
		slog.Info("session: ended with application error", "subject", sess.subjectID, "message", ev.Message)
	}
	// Busy was already cleared by the reconciler for terminal events.
}

// transportEnded handles the channel dying without an application-level
// terminal event. A self-initiated close (cancel or supersede) stays
// silent; an unexpected one surfaces as a generic connection-lost entry,
// or a timeout entry when the session deadline expired.
func (m *Manager) transportEnded(ctx context.Context, sess *activeSession, err error) {
	m.mu.Lock()
	if sess.selfClosed || m.active != sess {
		m.mu.Unlock()
		return
	}
	m.active = nil
	m.mu.Unlock()

	sess.cancel()

	text := "Connection lost. Triage session aborted."
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		text = "Triage session timed out."
	}
	slog.Warn("session: transport ended unexpectedly",
		"subject", sess.subjectID,
		"close_status", websocket.CloseStatus(err),
		"error", err,
	)

	m.store.Update(func(s *state.State) {
		s.Busy = false
		s.Session = state.SessionErrored
		s.Conversation = append(s.Conversation, state.ConversationEntry{
			ID:        uuid.New().String(),
			Role:      state.RoleSystem,
			Text:      text,
			Timestamp: time.Now(),
		})
	})
}
