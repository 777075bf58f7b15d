package simserver

import (
	"context"

	"github.com/AbsSadhu/AuraTriage/internal/subject"
)

// SeededMemoryStore returns a memory store pre-loaded with the demo cohort
// of ten Indian patients: ABHA numbers, Hinglish encounters, brand-name
// medications, vitals in °C, allergies and flagged labs.
func SeededMemoryStore() *MemoryStore {
	m := NewMemoryStore()
	ctx := context.Background()

	for _, p := range seedSubjects {
		m.CreateSubject(ctx, p)
	}
	for _, e := range seedEncounters {
		m.AddEncounter(ctx, e.PatientID, e)
	}
	for _, med := range seedMedications {
		m.AddMedication(ctx, med.PatientID, med)
	}
	for _, v := range seedVitals {
		m.AddVitals(ctx, v.PatientID, v)
	}
	for _, a := range seedAllergies {
		m.AddAllergy(ctx, a.PatientID, a)
	}
	for _, l := range seedLabs {
		m.AddLabResult(ctx, l.PatientID, l)
	}
	return m
}

var seedSubjects = []subject.Subject{
	{PatientID: "P001", ABHANumber: "91-1234-5678-9012", Name: "Rajesh Kumar Sharma", DOB: "1958-03-12", Age: 67, Gender: "M", InsuranceTier: "PMJAY", City: "Delhi", Pincode: "110001", Phone: "+919876543210"},
	{PatientID: "P002", ABHANumber: "91-2345-6789-0123", Name: "Priya Nair", DOB: "1990-07-24", Age: 35, Gender: "F", InsuranceTier: "Private", City: "Mumbai", Pincode: "400001", Phone: "+919876543211"},
	{PatientID: "P003", ABHANumber: "91-3456-7890-1234", Name: "Anita Devi", DOB: "1975-11-05", Age: 50, Gender: "F", InsuranceTier: "CGHS", City: "Lucknow", Pincode: "226001", Phone: "+919876543212"},
	{PatientID: "P004", ABHANumber: "91-4567-8901-2345", Name: "Mohammed Irfan Khan", DOB: "2001-01-18", Age: 25, Gender: "M", InsuranceTier: "ESIC", City: "Hyderabad", Pincode: "500001", Phone: "+919876543213"},
	{PatientID: "P005", ABHANumber: "91-5678-9012-3456", Name: "Kamala Devi Agarwal", DOB: "1945-06-30", Age: 80, Gender: "F", InsuranceTier: "PMJAY", City: "Varanasi", Pincode: "221001", Phone: "+919876543214"},
	{PatientID: "P006", ABHANumber: "91-6789-0123-4567", Name: "Suresh Babu Reddy", DOB: "1983-09-14", Age: 42, Gender: "M", InsuranceTier: "Private", City: "Bengaluru", Pincode: "560001", Phone: "+919876543215"},
	{PatientID: "P007", ABHANumber: "91-7890-1234-5678", Name: "Fatima Begum", DOB: "1969-02-22", Age: 57, Gender: "F", InsuranceTier: "PMJAY", City: "Patna", Pincode: "800001", Phone: "+919876543216"},
	{PatientID: "P008", ABHANumber: "91-8901-2345-6789", Name: "Arjun Singh Thakur", DOB: "1995-12-01", Age: 30, Gender: "M", InsuranceTier: "Self-Pay", City: "Jaipur", Pincode: "302001", Phone: "+919876543217"},
	{PatientID: "P009", ABHANumber: "91-9012-3456-7890", Name: "Lakshmi Iyer", DOB: "1952-08-19", Age: 73, Gender: "F", InsuranceTier: "CGHS", City: "Chennai", Pincode: "600001", Phone: "+919876543218"},
	{PatientID: "P010", ABHANumber: "91-0123-4567-8901", Name: "Vikram Patel", DOB: "1988-04-07", Age: 37, Gender: "M", InsuranceTier: "ESIC", City: "Ahmedabad", Pincode: "380001", Phone: "+919876543219"},
}

var seedEncounters = []subject.Encounter{
	{EncounterID: "E001", PatientID: "P001", Date: "2026-02-20", ChiefComplaint: "Seene mein dard (chest pain)", Symptoms: "Substernal chest pain radiating to left arm with pasina aana (diaphoresis), saans phoolna (shortness of breath). ECG ordered stat.", Notes: "Triage level 2, suspected ACS. Referred from PHC Sarojini Nagar."},
	{EncounterID: "E002", PatientID: "P002", Date: "2026-02-21", ChiefComplaint: "Severe migraine", Symptoms: "Severe throbbing sir dard (headache) for 3 days, photophobia, ulti (vomiting), visual aura. OPD visit, 3rd episode this month.", Notes: "History of menstrual migraine. Tried Dolo 650 at home, no relief."},
	{EncounterID: "E003", PatientID: "P003", Date: "2026-02-19", ChiefComplaint: "Sugar follow-up (Diabetic)", Symptoms: "Zyada peshab aana (polyuria), zyada pyaas lagna (polydipsia), dhundla dikhna (blurred vision), pairon mein jhunjhunahat (tingling in feet)", Notes: "HbA1c trending up from 7.2 to 9.1. Non-compliant with Glycomet. District hospital referral."},
	{EncounterID: "E004", PatientID: "P004", Date: "2026-02-22", ChiefComplaint: "Dengue suspected", Symptoms: "Tez bukhar (high fever) 104°F for 3 days, severe body ache, jodon mein dard (joint pain), skin rash, low platelet count suspected", Notes: "Came from local clinic after paracetamol not working. NS1 antigen ordered."},
	{EncounterID: "E005", PatientID: "P005", Date: "2026-02-18", ChiefComplaint: "Bhoolna / Cognitive decline", Symptoms: "Yaaddaasht kamzor (memory loss), confusion, shabd nahi milte (difficulty finding words), raat ko bhatakna (wandering at night)", Notes: "Family worried, brought in by beta (son). MMSE score 18/30."},
	{EncounterID: "E006", PatientID: "P006", Date: "2026-02-22", ChiefComplaint: "Ghabrahat (Anxiety attack)", Symptoms: "Dil ki dhadkan tez (palpitations), kaanpna (trembling), seene mein jakdan (chest tightness), sapne mein lag raha hai (derealization)", Notes: "Known GAD. IT professional, high work stress. Currently on Nexito 10mg."},
	{EncounterID: "E007", PatientID: "P007", Date: "2026-02-21", ChiefComplaint: "BP bahut zyada (Hypertension crisis)", Symptoms: "Tez sir dard (severe headache), dhundla dikhna (blurred vision), BP 195/120, naak se khoon (epistaxis)", Notes: "Non-compliant with Telmisartan. Brought from Anganwadi worker referral."},
	{EncounterID: "E008", PatientID: "P008", Date: "2026-02-23", ChiefComplaint: "Pet mein dard (Abdominal pain)", Symptoms: "Pet ke daayein neeche mein tez dard (sharp RLQ pain), ulti (nausea), halka bukhar (low-grade fever), rebound tenderness", Notes: "Appendicitis suspected. Surgical consult stat. Patient drove from village 40km away."},
	{EncounterID: "E009", PatientID: "P009", Date: "2026-02-20", ChiefComplaint: "Saans ki taklif (COPD exacerbation)", Symptoms: "Saans phoolna badh rahi hai (worsening dyspnea), balgam wali khansi, hara balgam (productive cough with green sputum), seeti ki awaaz (wheezing)", Notes: "SpO2 88% on room air. Known COPD Gold Stage III. Using Tiova Rotacaps."},
	{EncounterID: "E010", PatientID: "P010", Date: "2026-02-22", ChiefComplaint: "Chamdi pe dane (Skin rash)", Symptoms: "Pet aur baahon pe laal dane (erythematous papular rash on trunk and arms), khujli (pruritic), 5 din se", Notes: "No known allergen exposure. Rule out viral exanthem vs drug reaction."},
}

var seedMedications = []subject.Medication{
	{MedID: "M001", PatientID: "P001", DrugName: "Ecosprin 75", Dosage: "75mg", Frequency: "OD", Status: "Active"},
	{MedID: "M002", PatientID: "P001", DrugName: "Atorva 40 (Atorvastatin)", Dosage: "40mg", Frequency: "OD HS", Status: "Active"},
	{MedID: "M003", PatientID: "P001", DrugName: "Metolar XR (Metoprolol)", Dosage: "50mg", Frequency: "BD", Status: "Active"},
	{MedID: "M004", PatientID: "P002", DrugName: "Suminat 50 (Sumatriptan)", Dosage: "50mg", Frequency: "SOS", Status: "Active"},
	{MedID: "M005", PatientID: "P003", DrugName: "Glycomet GP 2 (Metformin+Glimepiride)", Dosage: "1000mg/2mg", Frequency: "BD PC", Status: "Active"},
	{MedID: "M006", PatientID: "P003", DrugName: "Glynase MF (Glipizide+Metformin)", Dosage: "5mg/500mg", Frequency: "OD BBF", Status: "Active"},
	{MedID: "M007", PatientID: "P003", DrugName: "Covance 20 (Losartan)", Dosage: "20mg", Frequency: "OD", Status: "Active"},
	{MedID: "M008", PatientID: "P005", DrugName: "Donep 10 (Donepezil)", Dosage: "10mg", Frequency: "OD HS", Status: "Active"},
	{MedID: "M009", PatientID: "P005", DrugName: "Admenta 10 (Memantine)", Dosage: "10mg", Frequency: "BD", Status: "Active"},
	{MedID: "M010", PatientID: "P006", DrugName: "Nexito 10 (Escitalopram)", Dosage: "10mg", Frequency: "OD", Status: "Active"},
	{MedID: "M011", PatientID: "P007", DrugName: "Amlodac 10 (Amlodipine)", Dosage: "10mg", Frequency: "OD", Status: "Active"},
	{MedID: "M012", PatientID: "P007", DrugName: "Telma 40 (Telmisartan)", Dosage: "40mg", Frequency: "OD", Status: "Non-compliant"},
	{MedID: "M013", PatientID: "P007", DrugName: "Aquazide 12.5 (Hydrochlorothiazide)", Dosage: "12.5mg", Frequency: "OD", Status: "Non-compliant"},
	{MedID: "M014", PatientID: "P009", DrugName: "Tiova Rotacap (Tiotropium)", Dosage: "18mcg", Frequency: "OD inhaler", Status: "Active"},
	{MedID: "M015", PatientID: "P009", DrugName: "Asthalin Inhaler (Salbutamol)", Dosage: "100mcg", Frequency: "SOS", Status: "Active"},
	{MedID: "M016", PatientID: "P009", DrugName: "Omnacortil 40 (Prednisolone)", Dosage: "40mg", Frequency: "Taper 5 days", Status: "Active"},
	{MedID: "M017", PatientID: "P004", DrugName: "Dolo 650 (Paracetamol)", Dosage: "650mg", Frequency: "TDS SOS", Status: "Active"},
	{MedID: "M018", PatientID: "P008", DrugName: "Pan-D (Pantoprazole+Domperidone)", Dosage: "40mg/30mg", Frequency: "OD BBF", Status: "Active"},
}

var seedVitals = []subject.Vital{
	{VitalID: "V001", PatientID: "P001", Timestamp: "2026-02-20 14:30:00", HeartRate: 102, BPSystolic: 165, BPDiastolic: 95, Temperature: 37.1, OxygenSaturation: 96, RespiratoryRate: 22},
	{VitalID: "V002", PatientID: "P002", Timestamp: "2026-02-21 09:15:00", HeartRate: 78, BPSystolic: 125, BPDiastolic: 82, Temperature: 36.8, OxygenSaturation: 99, RespiratoryRate: 16},
	{VitalID: "V003", PatientID: "P003", Timestamp: "2026-02-19 11:00:00", HeartRate: 88, BPSystolic: 142, BPDiastolic: 90, Temperature: 37.0, OxygenSaturation: 98, RespiratoryRate: 18},
	{VitalID: "V004", PatientID: "P004", Timestamp: "2026-02-22 16:45:00", HeartRate: 108, BPSystolic: 100, BPDiastolic: 65, Temperature: 40.0, OxygenSaturation: 97, RespiratoryRate: 22},
	{VitalID: "V005", PatientID: "P005", Timestamp: "2026-02-18 10:30:00", HeartRate: 68, BPSystolic: 138, BPDiastolic: 84, Temperature: 36.5, OxygenSaturation: 97, RespiratoryRate: 16},
	{VitalID: "V006", PatientID: "P006", Timestamp: "2026-02-22 13:00:00", HeartRate: 112, BPSystolic: 148, BPDiastolic: 92, Temperature: 37.0, OxygenSaturation: 99, RespiratoryRate: 24},
	{VitalID: "V007", PatientID: "P007", Timestamp: "2026-02-21 08:00:00", HeartRate: 96, BPSystolic: 195, BPDiastolic: 120, Temperature: 37.2, OxygenSaturation: 97, RespiratoryRate: 20},
	{VitalID: "V008", PatientID: "P008", Timestamp: "2026-02-23 07:30:00", HeartRate: 94, BPSystolic: 130, BPDiastolic: 85, Temperature: 38.4, OxygenSaturation: 98, RespiratoryRate: 20},
	{VitalID: "V009", PatientID: "P009", Timestamp: "2026-02-20 12:00:00", HeartRate: 92, BPSystolic: 145, BPDiastolic: 88, Temperature: 37.4, OxygenSaturation: 88, RespiratoryRate: 28},
	{VitalID: "V010", PatientID: "P010", Timestamp: "2026-02-22 15:00:00", HeartRate: 74, BPSystolic: 122, BPDiastolic: 78, Temperature: 37.0, OxygenSaturation: 99, RespiratoryRate: 16},
}

var seedAllergies = []subject.Allergy{
	{AllergyID: "A001", PatientID: "P001", Allergen: "Penicillin", Reaction: "Anaphylaxis", Severity: "Severe"},
	{AllergyID: "A002", PatientID: "P001", Allergen: "Shellfish (Jhinga)", Reaction: "Hives", Severity: "Moderate"},
	{AllergyID: "A003", PatientID: "P003", Allergen: "Sulfonamides", Reaction: "Rash", Severity: "Mild"},
	{AllergyID: "A004", PatientID: "P005", Allergen: "Latex", Reaction: "Contact dermatitis", Severity: "Moderate"},
	{AllergyID: "A005", PatientID: "P007", Allergen: "ACE Inhibitors", Reaction: "Angioedema", Severity: "Severe"},
	{AllergyID: "A006", PatientID: "P008", Allergen: "Codeine", Reaction: "Nausea/vomiting", Severity: "Moderate"},
	{AllergyID: "A007", PatientID: "P009", Allergen: "Aspirin", Reaction: "Bronchospasm", Severity: "Severe"},
	{AllergyID: "A008", PatientID: "P004", Allergen: "Chloroquine", Reaction: "Rash and itching", Severity: "Moderate"},
}

var seedLabs = []subject.LabResult{
	{LabID: "L001", PatientID: "P001", TestName: "Troponin I", ResultValue: "0.08", Unit: "ng/mL", ReferenceRange: "0.00-0.04", Flag: "HIGH", Date: "2026-02-20"},
	{LabID: "L002", PatientID: "P001", TestName: "BNP", ResultValue: "450", Unit: "pg/mL", ReferenceRange: "0-100", Flag: "HIGH", Date: "2026-02-20"},
	{LabID: "L003", PatientID: "P003", TestName: "HbA1c", ResultValue: "9.1", Unit: "%", ReferenceRange: "4.0-5.6", Flag: "HIGH", Date: "2026-02-19"},
	{LabID: "L004", PatientID: "P003", TestName: "Fasting Glucose", ResultValue: "210", Unit: "mg/dL", ReferenceRange: "70-100", Flag: "HIGH", Date: "2026-02-19"},
	{LabID: "L005", PatientID: "P003", TestName: "Creatinine", ResultValue: "1.8", Unit: "mg/dL", ReferenceRange: "0.7-1.3", Flag: "HIGH", Date: "2026-02-19"},
	{LabID: "L006", PatientID: "P005", TestName: "TSH", ResultValue: "5.8", Unit: "mIU/L", ReferenceRange: "0.4-4.0", Flag: "HIGH", Date: "2026-02-18"},
	{LabID: "L007", PatientID: "P005", TestName: "Vitamin B12", ResultValue: "180", Unit: "pg/mL", ReferenceRange: "200-900", Flag: "LOW", Date: "2026-02-18"},
	{LabID: "L008", PatientID: "P008", TestName: "WBC", ResultValue: "14200", Unit: "cells/mcL", ReferenceRange: "4500-11000", Flag: "HIGH", Date: "2026-02-23"},
	{LabID: "L009", PatientID: "P008", TestName: "CRP", ResultValue: "8.5", Unit: "mg/dL", ReferenceRange: "0-1.0", Flag: "HIGH", Date: "2026-02-23"},
	{LabID: "L010", PatientID: "P009", TestName: "ABG pH", ResultValue: "7.32", Unit: "", ReferenceRange: "7.35-7.45", Flag: "LOW", Date: "2026-02-20"},
	{LabID: "L011", PatientID: "P009", TestName: "ABG pCO2", ResultValue: "52", Unit: "mmHg", ReferenceRange: "35-45", Flag: "HIGH", Date: "2026-02-20"},
	{LabID: "L012", PatientID: "P010", TestName: "CBC", ResultValue: "Normal", Unit: "", ReferenceRange: "", Flag: "NORMAL", Date: "2026-02-22"},
	{LabID: "L013", PatientID: "P004", TestName: "Platelet Count", ResultValue: "85000", Unit: "cells/mcL", ReferenceRange: "150000-400000", Flag: "LOW", Date: "2026-02-22"},
	{LabID: "L014", PatientID: "P004", TestName: "NS1 Antigen", ResultValue: "Positive", Unit: "", ReferenceRange: "Negative", Flag: "HIGH", Date: "2026-02-22"},
	{LabID: "L015", PatientID: "P004", TestName: "Dengue IgM", ResultValue: "Positive", Unit: "", ReferenceRange: "Negative", Flag: "HIGH", Date: "2026-02-22"},
}
