package triage

import (
	"errors"
	"testing"
)

func TestDecode_AgentEvents(t *testing.T) {
	raw := []byte(`{"type":"agent_thinking","agent":"Chief Diagnostician","avatar":"🩺","index":0}`)
	e, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Type != KindAgentThinking {
		t.Errorf("expected agent_thinking, got %s", e.Type)
	}
	if e.Agent != "Chief Diagnostician" {
		t.Errorf("unexpected agent: %q", e.Agent)
	}

	raw = []byte(`{"type":"agent_result","agent":"Chief Diagnostician","avatar":"🩺","content":"Likely viral","confidence":82}`)
	e, err = Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Confidence == nil || *e.Confidence != 82 {
		t.Errorf("expected confidence 82, got %v", e.Confidence)
	}
}

func TestDecode_RiskScore(t *testing.T) {
	raw := []byte(`{"type":"risk_score","risk":{"score":72,"triage_level":"RED","triage_label":"Emergency","triage_color":"#e74c3c","breakdown":{"age":12,"vitals":30}}}`)
	e, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Risk.Score != 72 || e.Risk.TriageLevel != LevelRed {
		t.Errorf("unexpected risk: %+v", e.Risk)
	}
	if e.Risk.Breakdown["vitals"] != 30 {
		t.Errorf("expected vitals=30 in breakdown, got %v", e.Risk.Breakdown)
	}
}

func TestDecode_NlpExtractionDefaultsSymptoms(t *testing.T) {
	e, err := Decode([]byte(`{"type":"nlp_extraction"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Symptoms == nil || len(e.Symptoms) != 0 {
		t.Errorf("expected empty symptom list, got %v", e.Symptoms)
	}
}

func TestDecode_ProtocolErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid json", `{not json`},
		{"missing type", `{"agent":"x"}`},
		{"unknown type", `{"type":"agent_debate"}`},
		{"thinking without agent", `{"type":"agent_thinking"}`},
		{"result without agent", `{"type":"agent_result","content":"x"}`},
		{"risk without payload", `{"type":"risk_score"}`},
		{"risk score out of range", `{"type":"risk_score","risk":{"score":180,"triage_level":"RED"}}`},
		{"risk bad level", `{"type":"risk_score","risk":{"score":50,"triage_level":"ORANGE"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.raw)); !errors.Is(err, ErrProtocol) {
				t.Errorf("expected ErrProtocol, got %v", err)
			}
		})
	}
}

func TestDecode_Terminal(t *testing.T) {
	complete, err := Decode([]byte(`{"type":"triage_complete","summary":"Low risk"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !complete.Terminal() {
		t.Error("triage_complete should be terminal")
	}

	appErr, err := Decode([]byte(`{"type":"error","message":"Patient not found"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !appErr.Terminal() {
		t.Error("error should be terminal")
	}

	thinking, _ := Decode([]byte(`{"type":"agent_thinking","agent":"x"}`))
	if thinking.Terminal() {
		t.Error("agent_thinking should not be terminal")
	}
}

func TestTriageLevelValid(t *testing.T) {
	for _, l := range Levels {
		if !l.Valid() {
			t.Errorf("level %s should be valid", l)
		}
	}
	if TriageLevel("ORANGE").Valid() {
		t.Error("ORANGE should not be valid")
	}
}
