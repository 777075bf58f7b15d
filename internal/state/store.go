// Package state holds the single reactive state container for a triage
// session: selected subject, conversation log, agent timeline, latest risk
// score and symptom list, busy flag. It owns no transport logic; the session
// manager and reconciler mutate it through Update.
package state

import (
	"sync"
	"time"

	"github.com/AbsSadhu/AuraTriage/internal/subject"
	"github.com/AbsSadhu/AuraTriage/internal/triage"
)

// SessionState tracks where the streaming channel lifecycle is.
type SessionState int

const (
	SessionIdle SessionState = iota
	SessionConnecting
	SessionStreaming
	SessionCompleted
	SessionErrored
)

func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionConnecting:
		return "connecting"
	case SessionStreaming:
		return "streaming"
	case SessionCompleted:
		return "completed"
	case SessionErrored:
		return "errored"
	}
	return "unknown"
}

// Terminal reports whether the session has ended and needs an explicit new
// start before any further reconciliation may happen.
func (s SessionState) Terminal() bool {
	return s == SessionCompleted || s == SessionErrored
}

// Conversation entry roles.
const (
	RoleUser   = "user"
	RoleSystem = "system"
)

// ConversationEntry is one append-only log line. The log is only ever
// cleared wholesale on subject change.
type ConversationEntry struct {
	ID        string
	Role      string
	Text      string
	Timestamp time.Time
}

// TimelineEntryKind distinguishes the three rendered unit shapes on the
// agent timeline.
type TimelineEntryKind int

const (
	// TimelinePlaceholder is a transient "agent is working" entry pending
	// replacement by a result.
	TimelinePlaceholder TimelineEntryKind = iota
	// TimelineResult is a terminal per-agent result entry.
	TimelineResult
	// TimelineMarker is the terminal marker appended on triage_complete.
	TimelineMarker
)

// TimelineEntry is one rendered unit of agent activity. Placeholders and
// results carry the per-agent sequence number they correlate on; display
// text never participates in matching.
type TimelineEntry struct {
	Kind       TimelineEntryKind
	Agent      string
	Avatar     string
	Seq        int
	Content    string
	Confidence *int
}

// State is the full session state value. The reconciler operates on *State
// directly, which keeps it a pure, independently testable function; the
// Store below only adds atomicity around it.
type State struct {
	SelectedSubjectID string
	Detail            *subject.Detail
	Conversation      []ConversationEntry
	Timeline          []TimelineEntry
	Risk              *triage.RiskScore
	Symptoms          []triage.Symptom
	Busy              bool
	SearchFilter      string
	Session           SessionState

	// agentSeq is the monotonically increasing per-agent counter used to
	// correlate thinking placeholders with their results.
	agentSeq map[string]int
}

// NextAgentSeq returns the next sequence number for the named agent.
func (s *State) NextAgentSeq(agent string) int {
	if s.agentSeq == nil {
		s.agentSeq = make(map[string]int)
	}
	s.agentSeq[agent]++
	return s.agentSeq[agent]
}

// Store is the process-wide session state container. Every mutation runs
// under the lock so readers never observe a partially applied update.
type Store struct {
	mu sync.RWMutex
	s  State
}

func New() *Store {
	return &Store{}
}

// Update applies one atomic mutation to the state.
func (st *Store) Update(fn func(*State)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	fn(&st.s)
}

// Snapshot returns a deep copy of the current state. Mutating the copy has
// no effect on the store.
func (st *Store) Snapshot() State {
	st.mu.RLock()
	defer st.mu.RUnlock()

	cp := st.s
	cp.Conversation = append([]ConversationEntry(nil), st.s.Conversation...)
	cp.Timeline = append([]TimelineEntry(nil), st.s.Timeline...)
	cp.Symptoms = append([]triage.Symptom(nil), st.s.Symptoms...)
	if st.s.Risk != nil {
		r := *st.s.Risk
		r.Breakdown = make(map[string]int, len(st.s.Risk.Breakdown))
		for k, v := range st.s.Risk.Breakdown {
			r.Breakdown[k] = v
		}
		cp.Risk = &r
	}
	if st.s.Detail != nil {
		d := *st.s.Detail
		d.Encounters = append([]subject.Encounter(nil), d.Encounters...)
		d.Medications = append([]subject.Medication(nil), d.Medications...)
		d.Vitals = append([]subject.Vital(nil), d.Vitals...)
		d.Allergies = append([]subject.Allergy(nil), d.Allergies...)
		d.LabResults = append([]subject.LabResult(nil), d.LabResults...)
		cp.Detail = &d
	}
	cp.agentSeq = nil
	return cp
}

// SelectSubject switches the store to a new subject. Per the session
// contract this clears the conversation log, the agent timeline, the
// symptom list and the risk score before anything else happens for the
// new subject.
func (st *Store) SelectSubject(id string) {
	st.Update(func(s *State) {
		s.SelectedSubjectID = id
		s.Detail = nil
		s.Conversation = nil
		s.Timeline = nil
		s.Symptoms = nil
		s.Risk = nil
		s.agentSeq = nil
	})
}

// SetDetail records the fetched subject detail. A nil detail is the legal
// "not loaded" state.
func (st *Store) SetDetail(d *subject.Detail) {
	st.Update(func(s *State) { s.Detail = d })
}

// AppendConversation appends one log entry.
func (st *Store) AppendConversation(e ConversationEntry) {
	st.Update(func(s *State) { s.Conversation = append(s.Conversation, e) })
}

// ClearConversation drops the whole log.
func (st *Store) ClearConversation() {
	st.Update(func(s *State) { s.Conversation = nil })
}

// AppendTimeline appends one agent timeline entry.
func (st *Store) AppendTimeline(e TimelineEntry) {
	st.Update(func(s *State) { s.Timeline = append(s.Timeline, e) })
}

// ClearTimeline drops the agent timeline.
func (st *Store) ClearTimeline() {
	st.Update(func(s *State) {
		s.Timeline = nil
		s.agentSeq = nil
	})
}

// SetRisk replaces the risk score wholesale. nil means "unknown".
func (st *Store) SetRisk(r *triage.RiskScore) {
	st.Update(func(s *State) { s.Risk = r })
}

// SetSymptoms replaces the extracted symptom list wholesale.
func (st *Store) SetSymptoms(symptoms []triage.Symptom) {
	st.Update(func(s *State) { s.Symptoms = symptoms })
}

// SetBusy sets the triage-in-progress flag.
func (st *Store) SetBusy(v bool) {
	st.Update(func(s *State) { s.Busy = v })
}

// SetSearchFilter sets the directory search filter.
func (st *Store) SetSearchFilter(q string) {
	st.Update(func(s *State) { s.SearchFilter = q })
}

// SetSession sets the channel lifecycle state.
func (st *Store) SetSession(v SessionState) {
	st.Update(func(s *State) { s.Session = v })
}
