package simserver

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/AbsSadhu/AuraTriage/internal/triage"
)

// hinglishMap translates common Hinglish symptom phrases to the standard
// English terms the ICD-10 table is keyed on.
var hinglishMap = map[string]string{
	"seene mein dard":          "chest pain",
	"chhati mein dard":         "chest pain",
	"sine mein dard":           "chest pain",
	"dil mein dard":            "chest pain",
	"sir dard":                 "headache",
	"sar dard":                 "headache",
	"sir mein dard":            "headache",
	"ulti":                     "vomiting",
	"matli":                    "nausea",
	"ji machlana":              "nausea",
	"bukhar":                   "fever",
	"tez bukhar":               "high fever",
	"badan garam":              "fever",
	"khansi":                   "cough",
	"suukhi khansi":            "dry cough",
	"balgam wali khansi":       "productive cough",
	"saans phoolna":            "shortness of breath",
	"saans lene mein taklif":   "shortness of breath",
	"dam ghutna":               "shortness of breath",
	"chakkar aana":             "dizziness",
	"sir ghoomna":              "dizziness",
	"aankhon ke aage andhera":  "syncope",
	"pet dard":                 "abdominal pain",
	"pet mein dard":            "abdominal pain",
	"pet mein marod":           "abdominal cramps",
	"kamar dard":               "back pain",
	"peeth dard":               "back pain",
	"jodon mein dard":          "joint pain",
	"haath pair mein dard":     "limb pain",
	"ghutno mein dard":         "knee pain",
	"sujan":                    "swelling",
	"soojan":                   "swelling",
	"khujli":                   "pruritus",
	"chamdi pe dane":           "skin rash",
	"dane nikal aaye":          "skin rash",
	"dhundla dikhna":           "blurred vision",
	"nazar kamzor":             "blurred vision",
	"bhoolna":                  "memory loss",
	"yaaddaasht kamzor":        "memory loss",
	"ghabrahat":                "anxiety",
	"neend nahi aati":          "insomnia",
	"kaanpna":                  "tremor",
	"jhunjhunahat":             "tingling",
	"sunnpan":                  "numbness",
	"seeti ki awaaz":           "wheezing",
	"gala kharab":              "sore throat",
	"dast":                     "diarrhea",
	"qabz":                     "constipation",
	"wajan kam hona":           "weight loss",
	"zyada peshab":             "polyuria",
	"zyada pyaas":              "polydipsia",
	"pasina aana":              "diaphoresis",
	"naak se khoon":            "epistaxis",
	"neel padna":               "bruising",
	"dil ki dhadkan tez":       "palpitations",
	"jakdan":                   "chest tightness",
	"thakan":                   "fatigue",
	"kamzori":                  "weakness",
	"pairon mein sujan":        "pedal edema",
	"khoon ki ulti":            "hematemesis",
	"latrine mein khoon":       "rectal bleeding",
	"zyada peshab aana":        "polyuria",
	"zyada pyaas lagna":        "polydipsia",
	"pairon mein jhunjhunahat": "peripheral neuropathy",
}

// icd10Map keys standard English symptom terms to ICD-10 codes, including
// India-prevalent tropical and infectious diseases.
var icd10Map = map[string]string{
	"chest pain":          "R07.9",
	"shortness of breath": "R06.0",
	"dyspnea":             "R06.0",
	"headache":            "R51.9",
	"migraine":            "G43.909",
	"nausea":              "R11.0",
	"vomiting":            "R11.10",
	"fever":               "R50.9",
	"high fever":          "R50.9",
	"cough":               "R05.9",
	"dry cough":           "R05.9",
	"productive cough":    "R05.09",
	"fatigue":             "R53.83",
	"weakness":            "R53.1",
	"dizziness":           "R42",
	"syncope":             "R55",
	"palpitations":        "R00.2",
	"chest tightness":     "R07.89",
	"abdominal pain":      "R10.9",
	"abdominal cramps":    "R10.84",
	"back pain":           "M54.9",
	"joint pain":          "M25.50",
	"knee pain":           "M25.569",
	"limb pain":           "M79.609",
	"swelling":            "R60.9",
	"pedal edema":         "R60.0",
	"skin rash":           "R21",
	"pruritus":            "L29.9",
	"blurred vision":      "H53.8",
	"memory loss":         "R41.3",
	"confusion":           "R41.0",
	"anxiety":             "F41.9",
	"depression":          "F32.9",
	"insomnia":            "G47.00",
	"tremor":              "R25.1",
	"numbness":            "R20.0",
	"tingling":            "R20.2",
	"peripheral neuropathy": "G62.9",
	"wheezing":              "R06.2",
	"sore throat":           "J02.9",
	"diarrhea":              "R19.7",
	"constipation":          "K59.00",
	"weight loss":           "R63.4",
	"polyuria":              "R35.8",
	"polydipsia":            "R63.1",
	"diaphoresis":           "R61",
	"epistaxis":             "R04.0",
	"bruising":              "R23.3",
	"rebound tenderness":    "R10.9",
	"hematemesis":           "K92.0",
	"rectal bleeding":       "K62.5",

	"dengue":                   "A90",
	"dengue hemorrhagic fever": "A91",
	"typhoid":                  "A01.0",
	"malaria":                  "B50.9",
	"falciparum malaria":       "B50.0",
	"vivax malaria":            "B51.9",
	"tuberculosis":             "A15.0",
	"pulmonary tb":             "A15.0",
	"chikungunya":              "A92.0",
	"leptospirosis":            "A27.9",
	"japanese encephalitis":    "A83.0",
	"kala-azar":                "B55.0",
	"filariasis":               "B74.9",
	"cholera":                  "A00.9",
	"hepatitis a":              "B15.9",
	"hepatitis e":              "B17.2",
	"scrub typhus":             "A75.3",
	"h1n1 influenza":           "J09.X2",
}

// severityKeywords maps modifier words, English and Hindi, to a severity
// tier. Checked within a text window around the symptom mention.
var severityKeywords = map[string]string{
	"severe":       triage.SeverityHigh,
	"tez":          triage.SeverityHigh,
	"bahut":        triage.SeverityHigh,
	"acute":        triage.SeverityHigh,
	"intense":      triage.SeverityHigh,
	"excruciating": triage.SeverityHigh,
	"worsening":    triage.SeverityHigh,
	"badh rahi":    triage.SeverityHigh,
	"critical":     triage.SeverityHigh,
	"jyada":        triage.SeverityHigh,
	"moderate":     triage.SeverityMedium,
	"chronic":      triage.SeverityMedium,
	"persistent":   triage.SeverityMedium,
	"thoda":        triage.SeverityLow,
	"halka":        triage.SeverityLow,
	"mild":         triage.SeverityLow,
	"slight":       triage.SeverityLow,
	"intermittent": triage.SeverityLow,
	"kabhi kabhi":  triage.SeverityLow,
}

var bodyParts = []string{
	"head", "chest", "abdomen", "back", "neck", "throat", "arm", "leg",
	"knee", "ankle", "wrist", "shoulder", "hip", "foot", "hand", "eye",
	"ear", "stomach", "lung", "heart", "liver", "kidney", "spine",
	"pelvis", "groin", "flank", "trunk",
	"sir", "seena", "pet", "peeth", "kamar", "gala", "baazu", "tang",
	"ghutna", "haath", "pair", "aankh", "kaan", "dil", "jigar", "gurda",
}

// prescriptionAbbrevs expands Indian prescription shorthand.
var prescriptionAbbrevs = map[string]string{
	"OD":   "Once daily",
	"BD":   "Twice daily",
	"TDS":  "Thrice daily (Three times a day)",
	"QDS":  "Four times a day",
	"SOS":  "If needed (as required)",
	"HS":   "At bedtime (Hora Somni)",
	"BBF":  "Before breakfast",
	"ABF":  "After breakfast",
	"PC":   "After food (Post Cibum)",
	"AC":   "Before food (Ante Cibum)",
	"STAT": "Immediately",
	"PRN":  "As needed",
	"TAB":  "Tablet",
	"CAP":  "Capsule",
	"SYP":  "Syrup",
	"INJ":  "Injection",
	"IU":   "International Units",
	"ML":   "Millilitres",
	"GM":   "Grams",
	"MG":   "Milligrams",
	"MCG":  "Micrograms",
}

const (
	severityWindow = 80
	bodyPartWindow = 50
)

// NormalizeHinglish translates Hinglish symptom phrases to English before
// extraction. Longer phrases replace first so "pet mein dard" wins over
// "pet dard".
func NormalizeHinglish(text string) string {
	lower := strings.ToLower(text)

	phrases := make([]string, 0, len(hinglishMap))
	for p := range hinglishMap {
		phrases = append(phrases, p)
	}
	sort.Slice(phrases, func(i, j int) bool { return len(phrases[i]) > len(phrases[j]) })

	for _, p := range phrases {
		lower = strings.ReplaceAll(lower, p, hinglishMap[p])
	}
	return lower
}

// ExtractSymptoms pulls structured symptoms with ICD-10 codes out of
// free-text clinician input. Hinglish input is normalized first.
func ExtractSymptoms(text string) []triage.Symptom {
	lower := NormalizeHinglish(text)

	// Stable output order for deterministic reports.
	terms := make([]string, 0, len(icd10Map))
	for t := range icd10Map {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	var found []triage.Symptom
	for _, term := range terms {
		if !strings.Contains(lower, term) {
			continue
		}
		found = append(found, triage.Symptom{
			Symptom:  term,
			ICD10:    icd10Map[term],
			Severity: detectSeverity(lower, term),
			BodyPart: detectBodyPart(lower, term),
		})
	}
	return found
}

func detectSeverity(text, symptom string) string {
	window, ok := windowAround(text, symptom, severityWindow)
	if !ok {
		return "unknown"
	}
	for keyword, level := range severityKeywords {
		if strings.Contains(window, keyword) {
			return level
		}
	}
	return triage.SeverityMedium
}

func detectBodyPart(text, symptom string) *string {
	window, ok := windowAround(text, symptom, bodyPartWindow)
	if !ok {
		return nil
	}
	for _, part := range bodyParts {
		if strings.Contains(window, part) {
			p := part
			return &p
		}
	}
	return nil
}

func windowAround(text, symptom string, radius int) (string, bool) {
	idx := strings.Index(text, symptom)
	if idx < 0 {
		return "", false
	}
	start := idx - radius
	if start < 0 {
		start = 0
	}
	end := idx + len(symptom) + radius
	if end > len(text) {
		end = len(text)
	}
	return text[start:end], true
}

// FormatExtractionReport renders extracted symptoms as a readable clinical
// summary.
func FormatExtractionReport(symptoms []triage.Symptom) string {
	if len(symptoms) == 0 {
		return "No specific symptoms could be extracted from the input."
	}

	emoji := map[string]string{
		triage.SeverityHigh:   "🔴",
		triage.SeverityMedium: "🟡",
		triage.SeverityLow:    "🟢",
	}

	lines := []string{"## NLP Symptom Extraction Report", ""}
	for i, s := range symptoms {
		e, ok := emoji[s.Severity]
		if !ok {
			e = "⚪"
		}
		body := ""
		if s.BodyPart != nil {
			body = fmt.Sprintf(" (%s)", *s.BodyPart)
		}
		lines = append(lines, fmt.Sprintf("%d. %s **%s**%s — ICD-10: `%s` | Severity: %s",
			i+1, e, titleCase(s.Symptom), body, s.ICD10, s.Severity))
	}
	return strings.Join(lines, "\n")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// DecodeAbbreviations annotates prescription shorthand with the expansion,
// e.g. "BD" becomes "BD (Twice daily)".
func DecodeAbbreviations(text string) string {
	result := text
	for abbrev, full := range prescriptionAbbrevs {
		re := regexp.MustCompile(`(?i)\b` + abbrev + `\b`)
		result = re.ReplaceAllString(result, abbrev+" ("+full+")")
	}
	return result
}
