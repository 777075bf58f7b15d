package state

import (
	"sync"
	"testing"
	"time"

	"github.com/AbsSadhu/AuraTriage/internal/subject"
	"github.com/AbsSadhu/AuraTriage/internal/triage"
)

func TestSelectSubject_ClearsSessionScopedState(t *testing.T) {
	st := New()
	st.SelectSubject("P001")
	st.AppendConversation(ConversationEntry{ID: "1", Role: RoleUser, Text: "chest pain", Timestamp: time.Now()})
	st.AppendTimeline(TimelineEntry{Kind: TimelinePlaceholder, Agent: "Chief Diagnostician", Seq: 1})
	st.SetRisk(&triage.RiskScore{Score: 55, TriageLevel: triage.LevelYellow})
	st.SetSymptoms([]triage.Symptom{{Symptom: "chest pain", ICD10: "R07.9", Severity: "high"}})

	st.SelectSubject("P002")

	s := st.Snapshot()
	if s.SelectedSubjectID != "P002" {
		t.Errorf("expected P002 selected, got %s", s.SelectedSubjectID)
	}
	if len(s.Conversation) != 0 {
		t.Errorf("expected empty conversation, got %d entries", len(s.Conversation))
	}
	if len(s.Timeline) != 0 {
		t.Errorf("expected empty timeline, got %d entries", len(s.Timeline))
	}
	if s.Risk != nil {
		t.Error("expected risk cleared")
	}
	if len(s.Symptoms) != 0 {
		t.Errorf("expected symptoms cleared, got %v", s.Symptoms)
	}
}

func TestSetRisk_LastWriteWins(t *testing.T) {
	st := New()
	st.SetRisk(&triage.RiskScore{Score: 20, TriageLevel: triage.LevelGreen})
	st.SetRisk(&triage.RiskScore{Score: 88, TriageLevel: triage.LevelBlack})

	s := st.Snapshot()
	if s.Risk == nil || s.Risk.Score != 88 || s.Risk.TriageLevel != triage.LevelBlack {
		t.Errorf("expected last risk score to win, got %+v", s.Risk)
	}
}

func TestSetRisk_NilIsUnknownNotError(t *testing.T) {
	st := New()
	st.SetRisk(&triage.RiskScore{Score: 40, TriageLevel: triage.LevelYellow})
	st.SetRisk(nil)

	if s := st.Snapshot(); s.Risk != nil {
		t.Errorf("expected nil risk, got %+v", s.Risk)
	}
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	st := New()
	st.AppendConversation(ConversationEntry{ID: "1", Role: RoleSystem, Text: "hello"})
	st.SetRisk(&triage.RiskScore{Score: 30, TriageLevel: triage.LevelGreen, Breakdown: map[string]int{"age": 3}})

	snap := st.Snapshot()
	snap.Conversation[0].Text = "mutated"
	snap.Risk.Breakdown["age"] = 99

	s := st.Snapshot()
	if s.Conversation[0].Text != "hello" {
		t.Error("snapshot mutation leaked into store conversation")
	}
	if s.Risk.Breakdown["age"] != 3 {
		t.Error("snapshot mutation leaked into store risk breakdown")
	}
}

func TestSnapshot_DetailRecordsAreDeepCopied(t *testing.T) {
	st := New()
	st.SetDetail(&subject.Detail{
		Subject: subject.Subject{PatientID: "P001", Name: "Rajesh Kumar Sharma"},
		Encounters: []subject.Encounter{
			{EncounterID: "E001", ChiefComplaint: "seene mein dard"},
		},
		Medications: []subject.Medication{{MedID: "M001", DrugName: "Ecosprin 75"}},
		LabResults:  []subject.LabResult{{LabID: "L001", TestName: "Troponin-I", Flag: "HIGH"}},
	})

	snap := st.Snapshot()
	snap.Detail.Encounters[0].ChiefComplaint = "mutated"
	snap.Detail.Medications[0].DrugName = "mutated"
	snap.Detail.LabResults[0].Flag = "mutated"

	s := st.Snapshot()
	if s.Detail.Encounters[0].ChiefComplaint != "seene mein dard" {
		t.Error("snapshot mutation leaked into store encounters")
	}
	if s.Detail.Medications[0].DrugName != "Ecosprin 75" {
		t.Error("snapshot mutation leaked into store medications")
	}
	if s.Detail.LabResults[0].Flag != "HIGH" {
		t.Error("snapshot mutation leaked into store lab results")
	}
}

func TestNextAgentSeq_MonotonicPerAgent(t *testing.T) {
	var s State
	if got := s.NextAgentSeq("kai"); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := s.NextAgentSeq("kai"); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := s.NextAgentSeq("lily"); got != 1 {
		t.Errorf("expected independent counter for second agent, got %d", got)
	}
}

func TestSessionState_Terminal(t *testing.T) {
	tests := []struct {
		st   SessionState
		want bool
	}{
		{SessionIdle, false},
		{SessionConnecting, false},
		{SessionStreaming, false},
		{SessionCompleted, true},
		{SessionErrored, true},
	}
	for _, tt := range tests {
		if got := tt.st.Terminal(); got != tt.want {
			t.Errorf("%s.Terminal() = %v, want %v", tt.st, got, tt.want)
		}
	}
}

func TestStore_ConcurrentMutations(t *testing.T) {
	st := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.AppendConversation(ConversationEntry{Role: RoleSystem, Text: "x"})
			st.Snapshot()
		}()
	}
	wg.Wait()

	if n := len(st.Snapshot().Conversation); n != 50 {
		t.Errorf("expected 50 entries, got %d", n)
	}
}
