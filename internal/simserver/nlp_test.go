package simserver

import (
	"strings"
	"testing"

	"github.com/AbsSadhu/AuraTriage/internal/triage"
)

func findSymptom(symptoms []triage.Symptom, name string) *triage.Symptom {
	for i := range symptoms {
		if symptoms[i].Symptom == name {
			return &symptoms[i]
		}
	}
	return nil
}

func TestNormalizeHinglish(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"seene mein dard ho raha hai", "chest pain"},
		{"tez bukhar aur khansi", "high fever"},
		{"saans phoolna", "shortness of breath"},
		{"pet mein dard", "abdominal pain"},
	}
	for _, tt := range tests {
		got := NormalizeHinglish(tt.in)
		if !strings.Contains(got, tt.want) {
			t.Errorf("NormalizeHinglish(%q) = %q, want it to contain %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeHinglish_LongerPhraseWins(t *testing.T) {
	// "pet mein dard" must map to abdominal pain, not be broken apart by a
	// shorter overlapping phrase.
	got := NormalizeHinglish("pet mein dard hai")
	if !strings.Contains(got, "abdominal pain") {
		t.Errorf("expected abdominal pain, got %q", got)
	}
}

func TestExtractSymptoms_HinglishWithSeverityAndBodyPart(t *testing.T) {
	symptoms := ExtractSymptoms("Patient ko tez seene mein dard hai aur pasina aana")

	chest := findSymptom(symptoms, "chest pain")
	if chest == nil {
		t.Fatalf("expected chest pain extracted, got %v", symptoms)
	}
	if chest.ICD10 != "R07.9" {
		t.Errorf("expected ICD-10 R07.9, got %s", chest.ICD10)
	}
	if chest.Severity != triage.SeverityHigh {
		t.Errorf("expected high severity from 'tez', got %s", chest.Severity)
	}
	if chest.BodyPart == nil || *chest.BodyPart != "chest" {
		t.Errorf("expected chest body part, got %v", chest.BodyPart)
	}
	if findSymptom(symptoms, "diaphoresis") == nil {
		t.Errorf("expected diaphoresis from 'pasina aana', got %v", symptoms)
	}
}

func TestExtractSymptoms_TropicalDisease(t *testing.T) {
	symptoms := ExtractSymptoms("suspected dengue with tez bukhar")

	d := findSymptom(symptoms, "dengue")
	if d == nil || d.ICD10 != "A90" {
		t.Errorf("expected dengue A90, got %v", symptoms)
	}
	if findSymptom(symptoms, "high fever") == nil {
		t.Errorf("expected high fever extracted, got %v", symptoms)
	}
}

func TestExtractSymptoms_DefaultSeverityMedium(t *testing.T) {
	symptoms := ExtractSymptoms("patient has headache")
	h := findSymptom(symptoms, "headache")
	if h == nil {
		t.Fatal("expected headache extracted")
	}
	if h.Severity != triage.SeverityMedium {
		t.Errorf("expected medium default severity, got %s", h.Severity)
	}
}

func TestExtractSymptoms_NoMatch(t *testing.T) {
	if got := ExtractSymptoms("routine annual checkup, all well"); len(got) != 0 {
		t.Errorf("expected no symptoms, got %v", got)
	}
}

func TestFormatExtractionReport(t *testing.T) {
	part := "chest"
	report := FormatExtractionReport([]triage.Symptom{
		{Symptom: "chest pain", ICD10: "R07.9", Severity: triage.SeverityHigh, BodyPart: &part},
	})
	for _, want := range []string{"Chest Pain", "R07.9", "high", "(chest)", "🔴"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}

	if got := FormatExtractionReport(nil); !strings.Contains(got, "No specific symptoms") {
		t.Errorf("unexpected empty report: %q", got)
	}
}

func TestDecodeAbbreviations(t *testing.T) {
	got := DecodeAbbreviations("Dolo 650 TDS SOS for 3 days")
	if !strings.Contains(got, "TDS (Thrice daily (Three times a day))") {
		t.Errorf("TDS not expanded: %q", got)
	}
	if !strings.Contains(got, "SOS (If needed (as required))") {
		t.Errorf("SOS not expanded: %q", got)
	}
}
