// Package subject holds the directory data model: the patient record the
// triage session is about, plus its nested clinical sub-resources.
package subject

import "github.com/AbsSadhu/AuraTriage/internal/triage"

// Subject is the lightweight directory listing record. The list endpoint
// attaches an age-based risk summary; the full computed score only comes
// with Detail.
type Subject struct {
	PatientID     string            `json:"patient_id"`
	ABHANumber    string            `json:"abha_number,omitempty"`
	Name          string            `json:"name"`
	DOB           string            `json:"dob,omitempty"`
	Age           int               `json:"age"`
	Gender        string            `json:"gender"`
	InsuranceTier string            `json:"insurance_tier"`
	City          string            `json:"city,omitempty"`
	Pincode       string            `json:"pincode,omitempty"`
	Phone         string            `json:"phone,omitempty"`
	Risk          *triage.RiskScore `json:"risk,omitempty"`
}

// Detail is the full record: the subject plus every nested sub-resource.
type Detail struct {
	Subject
	Encounters  []Encounter  `json:"encounters"`
	Medications []Medication `json:"medications"`
	Vitals      []Vital      `json:"vitals"`
	Allergies   []Allergy    `json:"allergies"`
	LabResults  []LabResult  `json:"lab_results"`
}

type Encounter struct {
	EncounterID    string `json:"encounter_id"`
	PatientID      string `json:"patient_id"`
	Date           string `json:"date"`
	ChiefComplaint string `json:"chief_complaint"`
	Symptoms       string `json:"symptoms"`
	Notes          string `json:"notes"`
}

type Medication struct {
	MedID     string `json:"med_id"`
	PatientID string `json:"patient_id"`
	DrugName  string `json:"drug_name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Status    string `json:"status"`
}

// Vital readings use the Celsius scale for temperature.
type Vital struct {
	VitalID          string  `json:"vital_id"`
	PatientID        string  `json:"patient_id"`
	Timestamp        string  `json:"timestamp"`
	HeartRate        int     `json:"heart_rate"`
	BPSystolic       int     `json:"blood_pressure_systolic"`
	BPDiastolic      int     `json:"blood_pressure_diastolic"`
	Temperature      float64 `json:"temperature"`
	OxygenSaturation int     `json:"oxygen_saturation"`
	RespiratoryRate  int     `json:"respiratory_rate"`
}

type Allergy struct {
	AllergyID string `json:"allergy_id"`
	PatientID string `json:"patient_id"`
	Allergen  string `json:"allergen"`
	Reaction  string `json:"reaction"`
	Severity  string `json:"severity"`
}

type LabResult struct {
	LabID          string `json:"lab_id"`
	PatientID      string `json:"patient_id"`
	TestName       string `json:"test_name"`
	ResultValue    string `json:"result_value"`
	Unit           string `json:"unit"`
	ReferenceRange string `json:"reference_range"`
	Flag           string `json:"flag"`
	Date           string `json:"date"`
}
