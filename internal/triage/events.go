package triage

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrProtocol marks a frame that failed validation at the channel boundary.
// The session continues after a protocol error; the frame is dropped.
var ErrProtocol = errors.New("protocol error")

// EventKind is the type discriminator on inbound frames.
type EventKind string

const (
	KindNlpExtraction  EventKind = "nlp_extraction"
	KindRiskScore      EventKind = "risk_score"
	KindAgentThinking  EventKind = "agent_thinking"
	KindAgentResult    EventKind = "agent_result"
	KindTriageComplete EventKind = "triage_complete"
	KindError          EventKind = "error"
)

// Event is the closed tagged variant for inbound frames. Each kind carries
// only the fields relevant to it; Decode enforces the per-kind shape so the
// reconciler never sees a half-formed event.
type Event struct {
	Type EventKind `json:"type"`

	// agent_thinking / agent_result
	Agent      string `json:"agent,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
	Index      int    `json:"index,omitempty"`
	Content    string `json:"content,omitempty"`
	Confidence *int   `json:"confidence,omitempty"`

	// nlp_extraction
	Symptoms []Symptom `json:"symptoms,omitempty"`
	Report   string    `json:"report,omitempty"`

	// risk_score
	Risk *RiskScore `json:"risk,omitempty"`

	// triage_complete
	Summary string `json:"summary,omitempty"`

	// error
	Message string `json:"message,omitempty"`
}

// Terminal reports whether the event ends the session.
func (e Event) Terminal() bool {
	return e.Type == KindTriageComplete || e.Type == KindError
}

// Decode parses and validates a raw inbound frame. Anything that is not a
// well-formed event of a known kind fails with an error wrapping ErrProtocol.
func Decode(raw []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return Event{}, fmt.Errorf("%w: unmarshal frame: %v", ErrProtocol, err)
	}

	switch e.Type {
	case KindNlpExtraction:
		if e.Symptoms == nil {
			e.Symptoms = []Symptom{}
		}
	case KindRiskScore:
		if e.Risk == nil {
			return Event{}, fmt.Errorf("%w: risk_score event missing risk payload", ErrProtocol)
		}
		if e.Risk.Score < 0 || e.Risk.Score > 100 {
			return Event{}, fmt.Errorf("%w: risk score %d out of range", ErrProtocol, e.Risk.Score)
		}
		if !e.Risk.TriageLevel.Valid() {
			return Event{}, fmt.Errorf("%w: unknown triage level %q", ErrProtocol, e.Risk.TriageLevel)
		}
	case KindAgentThinking, KindAgentResult:
		if e.Agent == "" {
			return Event{}, fmt.Errorf("%w: %s event missing agent name", ErrProtocol, e.Type)
		}
	case KindTriageComplete, KindError:
		// Summary and message may legitimately be empty.
	case "":
		return Event{}, fmt.Errorf("%w: frame missing type discriminator", ErrProtocol)
	default:
		return Event{}, fmt.Errorf("%w: unknown event type %q", ErrProtocol, e.Type)
	}

	return e, nil
}
