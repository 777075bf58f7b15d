// Package reconcile maps inbound triage events onto the session state. It
// is the only place that knows the per-event effects: wholesale replacement
// for risk and symptoms, placeholder/result correlation for the agent
// timeline, and the conversation entries each event contributes.
package reconcile

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AbsSadhu/AuraTriage/internal/state"
	"github.com/AbsSadhu/AuraTriage/internal/triage"
)

// DefaultContentLimit is the hard cap on rendered agent result content, in
// runes. Longer content is truncated with an ellipsis marker.
const DefaultContentLimit = 600

// Reconciler applies events to a state value. Now and NewID exist so tests
// can pin timestamps and entry IDs; zero values fall back to the real clock
// and random UUIDs.
type Reconciler struct {
	Now          func() time.Time
	NewID        func() string
	ContentLimit int
}

func New() *Reconciler {
	return &Reconciler{}
}

func (r *Reconciler) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Reconciler) newID() string {
	if r.NewID != nil {
		return r.NewID()
	}
	return uuid.New().String()
}

func (r *Reconciler) contentLimit() int {
	if r.ContentLimit > 0 {
		return r.ContentLimit
	}
	return DefaultContentLimit
}

// Apply folds one event into the state. It is a pure function of the state,
// the event, and the injected clock/ID source; it never fails, since by the
// time an event reaches the reconciler it has already passed boundary
// validation.
func (r *Reconciler) Apply(s *state.State, ev triage.Event) {
	switch ev.Type {
	case triage.KindNlpExtraction:
		s.Symptoms = ev.Symptoms
		r.appendSystem(s, fmt.Sprintf("NLP extraction complete: %d symptoms identified", len(ev.Symptoms)))

	case triage.KindRiskScore:
		s.Risk = ev.Risk

	case triage.KindAgentThinking:
		s.Timeline = append(s.Timeline, state.TimelineEntry{
			Kind:   state.TimelinePlaceholder,
			Agent:  ev.Agent,
			Avatar: ev.Avatar,
			Seq:    s.NextAgentSeq(ev.Agent),
		})

	case triage.KindAgentResult:
		r.resolveAgentResult(s, ev)

	case triage.KindTriageComplete:
		r.appendSystem(s, ev.Summary)
		// Nothing can resolve a placeholder once the session is over; the
		// summarizer's own thinking entry ends here too.
		s.Timeline = append(dropPlaceholders(s.Timeline), state.TimelineEntry{Kind: state.TimelineMarker})
		s.Busy = false

	case triage.KindError:
		r.appendSystem(s, "Error: "+ev.Message)
		s.Timeline = dropPlaceholders(s.Timeline)
		s.Busy = false

	default:
		// Decode guarantees a known kind; anything else is a programming
		// error worth a log line, not a crash.
		slog.Warn("reconcile: unhandled event kind", "type", ev.Type)
	}
}

// resolveAgentResult replaces the oldest outstanding placeholder for the
// agent with a result entry. Correlation is by agent name and sequence
// number, so display text changes cannot break the match. The result
// inherits the resolved placeholder's sequence number; with no outstanding
// placeholder it is appended standalone under the next one.
func (r *Reconciler) resolveAgentResult(s *state.State, ev triage.Event) {
	idx := -1
	for i, e := range s.Timeline {
		if e.Kind == state.TimelinePlaceholder && e.Agent == ev.Agent {
			idx = i
			break
		}
	}
	var seq int
	if idx >= 0 {
		seq = s.Timeline[idx].Seq
		s.Timeline = append(s.Timeline[:idx], s.Timeline[idx+1:]...)
	} else {
		seq = s.NextAgentSeq(ev.Agent)
	}

	s.Timeline = append(s.Timeline, state.TimelineEntry{
		Kind:       state.TimelineResult,
		Agent:      ev.Agent,
		Avatar:     ev.Avatar,
		Seq:        seq,
		Content:    truncate(ev.Content, r.contentLimit()),
		Confidence: ev.Confidence,
	})
}

func dropPlaceholders(timeline []state.TimelineEntry) []state.TimelineEntry {
	kept := timeline[:0]
	for _, e := range timeline {
		if e.Kind != state.TimelinePlaceholder {
			kept = append(kept, e)
		}
	}
	return kept
}

func (r *Reconciler) appendSystem(s *state.State, text string) {
	s.Conversation = append(s.Conversation, state.ConversationEntry{
		ID:        r.newID(),
		Role:      state.RoleSystem,
		Text:      text,
		Timestamp: r.now(),
	})
}

// truncate caps content at limit runes, appending an ellipsis marker when
// anything was cut.
func truncate(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "..."
}
