package session

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AbsSadhu/AuraTriage/internal/reconcile"
	"github.com/AbsSadhu/AuraTriage/internal/simserver"
	"github.com/AbsSadhu/AuraTriage/internal/state"
	"github.com/AbsSadhu/AuraTriage/internal/triage"
)

// Runs the consumer against a live simulator: the full event sequence for
// P001 must land in the store exactly as the protocol promises.
func TestEndToEnd_SimulatedTriageSession(t *testing.T) {
	sim := httptest.NewServer(simserver.NewServer(simserver.SeededMemoryStore(), 0, 0).Handler())
	t.Cleanup(sim.Close)

	st := state.New()
	m := NewManager(st, reconcile.New(), "ws"+strings.TrimPrefix(sim.URL, "http"), 0)

	st.SelectSubject("P001")
	if _, err := m.Start(context.Background(), "P001", "tez seene mein dard aur pasina aana"); err != nil {
		t.Fatalf("start: %v", err)
	}

	s := waitFor(t, st, func(s state.State) bool { return s.Session == state.SessionCompleted })

	if s.Busy {
		t.Error("expected busy cleared after completion")
	}
	if s.Risk == nil || s.Risk.TriageLevel != triage.LevelYellow {
		t.Errorf("expected YELLOW computed risk for P001, got %+v", s.Risk)
	}
	if len(s.Symptoms) == 0 {
		t.Fatal("expected extracted symptoms in state")
	}
	var chestPain bool
	for _, sym := range s.Symptoms {
		if sym.Symptom == "chest pain" && sym.ICD10 == "R07.9" {
			chestPain = true
		}
	}
	if !chestPain {
		t.Errorf("expected chest pain R07.9 extracted, got %+v", s.Symptoms)
	}

	// Four agents, each resolved to a result; no placeholder survives, the
	// terminal marker closes the timeline.
	var results, placeholders int
	for _, e := range s.Timeline {
		switch e.Kind {
		case state.TimelineResult:
			results++
		case state.TimelinePlaceholder:
			placeholders++
		}
	}
	if results != 4 || placeholders != 0 {
		t.Errorf("expected 4 results and 0 placeholders, got %d/%d", results, placeholders)
	}
	if last := s.Timeline[len(s.Timeline)-1]; last.Kind != state.TimelineMarker {
		t.Errorf("expected terminal marker last, got %+v", last)
	}

	// The nlp entry and the summary entry bracket the conversation.
	if len(s.Conversation) < 2 {
		t.Fatalf("expected at least 2 conversation entries, got %d", len(s.Conversation))
	}
	if !strings.Contains(s.Conversation[0].Text, "symptoms identified") {
		t.Errorf("unexpected first entry: %q", s.Conversation[0].Text)
	}
	if !strings.Contains(s.Conversation[len(s.Conversation)-1].Text, "FINAL DIAGNOSIS") {
		t.Errorf("unexpected final entry: %q", s.Conversation[len(s.Conversation)-1].Text)
	}
}
