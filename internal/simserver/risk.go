package simserver

import (
	"strings"

	"github.com/AbsSadhu/AuraTriage/internal/subject"
	"github.com/AbsSadhu/AuraTriage/internal/triage"
)

// triageBand is one score range of the triage scale.
type triageBand struct {
	min, max int
	label    string
	color    string
}

var triageBands = map[triage.TriageLevel]triageBand{
	triage.LevelBlack:  {85, 100, "Immediate / Resuscitation", "#1a1a2e"},
	triage.LevelRed:    {65, 84, "Emergency", "#e74c3c"},
	triage.LevelYellow: {40, 64, "Urgent", "#f39c12"},
	triage.LevelGreen:  {0, 39, "Non-Urgent / OPD", "#2ecc71"},
}

var highSeverityKeywords = []string{
	"chest pain", "seene mein dard", "seizure", "unconscious", "anaphylaxis",
	"stroke", "hemorrhage", "cardiac arrest", "respiratory failure", "sepsis",
	"radiating", "diaphoresis", "rebound tenderness",
	"dengue", "dengue hemorrhagic", "typhoid", "malaria", "falciparum",
	"meningitis", "encephalitis", "snakebite", "hematemesis",
	"platelet count low", "ns1 positive",
}

var mediumSeverityKeywords = []string{
	"severe", "tez", "bahut", "worsening", "badh rahi",
	"acute", "persistent", "high fever", "tez bukhar",
	"confusion", "non-compliant", "exacerbation",
	"chikungunya", "leptospirosis", "scrub typhus",
	"tuberculosis",
}

// CalculateRisk computes the weighted 0-100 triage score for a full record.
// Factors: age, latest vitals (temperature in °C), active medication count,
// encounter symptom keywords (Hinglish and English), lab flags, allergies.
func CalculateRisk(d *subject.Detail) *triage.RiskScore {
	breakdown := make(map[string]int)
	total := 0

	ageScore := scoreAge(d.Age)
	breakdown["age"] = ageScore
	total += ageScore

	vitalsScore := 0
	if len(d.Vitals) > 0 {
		vitalsScore = scoreVitals(d.Vitals[0])
	}
	breakdown["vitals"] = vitalsScore
	total += vitalsScore

	medScore := scoreMedications(d.Medications)
	breakdown["medications"] = medScore
	total += medScore

	symptomScore := 0
	if len(d.Encounters) > 0 {
		symptomScore = scoreSymptoms(d.Encounters[0])
	}
	breakdown["symptoms"] = symptomScore
	total += symptomScore

	labScore := scoreLabs(d.LabResults)
	breakdown["labs"] = labScore
	total += labScore

	allergyScore := scoreAllergies(d.Allergies)
	breakdown["allergies"] = allergyScore
	total += allergyScore

	if total > 100 {
		total = 100
	}

	level := bandFor(total)
	band := triageBands[level]
	return &triage.RiskScore{
		Score:       total,
		TriageLevel: level,
		TriageLabel: band.label,
		TriageColor: band.color,
		Breakdown:   breakdown,
	}
}

// LightweightRisk is the age-only summary attached to directory listings.
// The full computed score only ships with the detail view.
func LightweightRisk(age int) *triage.RiskScore {
	switch {
	case age >= 70:
		return &triage.RiskScore{Score: 55, TriageLevel: triage.LevelYellow}
	case age >= 50:
		return &triage.RiskScore{Score: 35, TriageLevel: triage.LevelGreen}
	case age <= 5:
		return &triage.RiskScore{Score: 45, TriageLevel: triage.LevelYellow}
	default:
		return &triage.RiskScore{Score: 20, TriageLevel: triage.LevelGreen}
	}
}

func bandFor(score int) triage.TriageLevel {
	for _, level := range triage.Levels {
		b := triageBands[level]
		if score >= b.min && score <= b.max {
			return level
		}
	}
	return triage.LevelGreen
}

// scoreAge contributes 0-15 points. Elderly and pediatric ages elevate.
func scoreAge(age int) int {
	switch {
	case age >= 75:
		return 15
	case age >= 65:
		return 12
	case age >= 50:
		return 8
	case age <= 1:
		return 14
	case age <= 5:
		return 10
	default:
		return 3
	}
}

// scoreVitals contributes 0-30 points from the latest reading.
func scoreVitals(v subject.Vital) int {
	score := 0

	switch {
	case v.HeartRate > 120 || v.HeartRate < 50:
		score += 8
	case v.HeartRate > 100 || v.HeartRate < 60:
		score += 4
	}

	switch {
	case v.BPSystolic > 180 || v.BPSystolic < 90:
		score += 8
	case v.BPSystolic > 140 || v.BPDiastolic > 90:
		score += 4
	}

	switch {
	case v.Temperature > 39.5 || v.Temperature < 35.0:
		score += 6
	case v.Temperature > 38.3:
		score += 3
	}

	switch {
	case v.OxygenSaturation < 90:
		score += 8
	case v.OxygenSaturation < 94:
		score += 4
	}

	switch {
	case v.RespiratoryRate > 24 || v.RespiratoryRate < 10:
		score += 5
	case v.RespiratoryRate > 20:
		score += 2
	}

	if score > 30 {
		score = 30
	}
	return score
}

// scoreMedications contributes 0-10 points for polypharmacy risk.
func scoreMedications(meds []subject.Medication) int {
	active := 0
	for _, m := range meds {
		if m.Status == "Active" {
			active++
		}
	}
	switch {
	case active >= 5:
		return 10
	case active >= 3:
		return 6
	case active >= 1:
		return 3
	default:
		return 0
	}
}

// scoreSymptoms contributes 0-20 points from keyword hits in the latest
// encounter text.
func scoreSymptoms(e subject.Encounter) int {
	text := strings.ToLower(e.Symptoms + " " + e.ChiefComplaint)
	score := 0
	for _, kw := range highSeverityKeywords {
		if strings.Contains(text, kw) {
			score += 5
		}
	}
	for _, kw := range mediumSeverityKeywords {
		if strings.Contains(text, kw) {
			score += 3
		}
	}
	if score > 20 {
		score = 20
	}
	return score
}

// scoreLabs contributes 0-15 points. Critical markers weigh extra; low
// platelets flag dengue risk.
func scoreLabs(labs []subject.LabResult) int {
	score := 0
	for _, lab := range labs {
		name := strings.ToLower(lab.TestName)
		switch strings.ToUpper(lab.Flag) {
		case "HIGH":
			if strings.Contains(name, "troponin") || strings.Contains(name, "ns1") ||
				strings.Contains(name, "dengue") || strings.Contains(name, "crp") {
				score += 5
			} else {
				score += 3
			}
		case "LOW":
			if strings.Contains(name, "platelet") {
				score += 5
			} else {
				score += 2
			}
		}
	}
	if score > 15 {
		score = 15
	}
	return score
}

// scoreAllergies contributes 0-10 points, weighting severe allergies.
func scoreAllergies(allergies []subject.Allergy) int {
	severe := 0
	for _, a := range allergies {
		if strings.EqualFold(a.Severity, "severe") {
			severe++
		}
	}
	score := severe*5 + len(allergies)
	if score > 10 {
		score = 10
	}
	return score
}
