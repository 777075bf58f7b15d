// Package triage defines the wire protocol shared by the streaming triage
// channel: the typed inbound events, the risk score model, and the
// NLP-extracted symptom shape.
package triage

// TriageLevel is one of the fixed ordered severity bands attached to a
// risk score. BLACK is the most severe, GREEN the least.
type TriageLevel string

const (
	LevelBlack  TriageLevel = "BLACK"
	LevelRed    TriageLevel = "RED"
	LevelYellow TriageLevel = "YELLOW"
	LevelGreen  TriageLevel = "GREEN"
)

// Levels lists all triage levels from most to least severe.
var Levels = []TriageLevel{LevelBlack, LevelRed, LevelYellow, LevelGreen}

// Valid reports whether l is a member of the fixed set.
func (l TriageLevel) Valid() bool {
	switch l {
	case LevelBlack, LevelRed, LevelYellow, LevelGreen:
		return true
	}
	return false
}

// RiskScore is the composite 0-100 triage score. It is immutable once
// received; a later risk_score event replaces it wholesale, never merges.
type RiskScore struct {
	Score       int            `json:"score"`
	TriageLevel TriageLevel    `json:"triage_level"`
	TriageLabel string         `json:"triage_label"`
	TriageColor string         `json:"triage_color"`
	Breakdown   map[string]int `json:"breakdown"`
}

// Severity tiers for extracted symptoms.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Symptom is one NLP-extracted symptom with its ICD-10 code. The symptom
// list on the session store is replaced wholesale per extraction event.
type Symptom struct {
	Symptom  string  `json:"symptom"`
	ICD10    string  `json:"icd10"`
	Severity string  `json:"severity"`
	BodyPart *string `json:"body_part"`
}
