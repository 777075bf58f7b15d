package simserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AbsSadhu/AuraTriage/internal/subject"
)

// PostgresStore persists the directory in Postgres, matching the production
// deployment where patient records live in a hosted Postgres instance.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) Close() {
	p.pool.Close()
}

const subjectColumns = `patient_id, abha_number, name, dob, age, gender, insurance_tier, city, pincode, phone`

func scanSubject(row pgx.Row) (*subject.Subject, error) {
	var s subject.Subject
	err := row.Scan(&s.PatientID, &s.ABHANumber, &s.Name, &s.DOB, &s.Age,
		&s.Gender, &s.InsuranceTier, &s.City, &s.Pincode, &s.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan patient: %w", err)
	}
	return &s, nil
}

func (p *PostgresStore) ListSubjects(ctx context.Context) ([]subject.Subject, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+subjectColumns+` FROM patients ORDER BY patient_id`)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var out []subject.Subject
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (p *PostgresStore) GetSubject(ctx context.Context, id string) (*subject.Subject, error) {
	return scanSubject(p.pool.QueryRow(ctx,
		`SELECT `+subjectColumns+` FROM patients WHERE patient_id = $1`, id))
}

func (p *PostgresStore) GetSubjectByABHA(ctx context.Context, abha string) (*subject.Subject, error) {
	return scanSubject(p.pool.QueryRow(ctx,
		`SELECT `+subjectColumns+` FROM patients WHERE abha_number = $1`, abha))
}

func (p *PostgresStore) GetDetail(ctx context.Context, id string) (*subject.Detail, error) {
	s, err := p.GetSubject(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &subject.Detail{Subject: *s}

	rows, err := p.pool.Query(ctx,
		`SELECT encounter_id, patient_id, date, chief_complaint, symptoms, notes
		 FROM encounters WHERE patient_id = $1 ORDER BY date DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("query encounters: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e subject.Encounter
		if err := rows.Scan(&e.EncounterID, &e.PatientID, &e.Date, &e.ChiefComplaint, &e.Symptoms, &e.Notes); err != nil {
			return nil, fmt.Errorf("scan encounter: %w", err)
		}
		d.Encounters = append(d.Encounters, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = p.pool.Query(ctx,
		`SELECT med_id, patient_id, drug_name, dosage, frequency, status
		 FROM medications WHERE patient_id = $1 ORDER BY med_id`, id)
	if err != nil {
		return nil, fmt.Errorf("query medications: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m subject.Medication
		if err := rows.Scan(&m.MedID, &m.PatientID, &m.DrugName, &m.Dosage, &m.Frequency, &m.Status); err != nil {
			return nil, fmt.Errorf("scan medication: %w", err)
		}
		d.Medications = append(d.Medications, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = p.pool.Query(ctx,
		`SELECT vital_id, patient_id, timestamp, heart_rate, blood_pressure_systolic,
		        blood_pressure_diastolic, temperature, oxygen_saturation, respiratory_rate
		 FROM vitals WHERE patient_id = $1 ORDER BY timestamp DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("query vitals: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v subject.Vital
		if err := rows.Scan(&v.VitalID, &v.PatientID, &v.Timestamp, &v.HeartRate,
			&v.BPSystolic, &v.BPDiastolic, &v.Temperature, &v.OxygenSaturation, &v.RespiratoryRate); err != nil {
			return nil, fmt.Errorf("scan vitals: %w", err)
		}
		d.Vitals = append(d.Vitals, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = p.pool.Query(ctx,
		`SELECT allergy_id, patient_id, allergen, reaction, severity
		 FROM allergies WHERE patient_id = $1 ORDER BY allergy_id`, id)
	if err != nil {
		return nil, fmt.Errorf("query allergies: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a subject.Allergy
		if err := rows.Scan(&a.AllergyID, &a.PatientID, &a.Allergen, &a.Reaction, &a.Severity); err != nil {
			return nil, fmt.Errorf("scan allergy: %w", err)
		}
		d.Allergies = append(d.Allergies, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = p.pool.Query(ctx,
		`SELECT lab_id, patient_id, test_name, result_value, unit, reference_range, flag, date
		 FROM lab_results WHERE patient_id = $1 ORDER BY date DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("query lab results: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l subject.LabResult
		if err := rows.Scan(&l.LabID, &l.PatientID, &l.TestName, &l.ResultValue,
			&l.Unit, &l.ReferenceRange, &l.Flag, &l.Date); err != nil {
			return nil, fmt.Errorf("scan lab result: %w", err)
		}
		d.LabResults = append(d.LabResults, l)
	}
	return d, rows.Err()
}

func (p *PostgresStore) CreateSubject(ctx context.Context, s subject.Subject) (*subject.Subject, error) {
	if s.PatientID == "" {
		s.PatientID = "P-" + uuid.New().String()[:8]
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO patients (`+subjectColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		s.PatientID, s.ABHANumber, s.Name, s.DOB, s.Age, s.Gender, s.InsuranceTier, s.City, s.Pincode, s.Phone)
	if err != nil {
		return nil, fmt.Errorf("insert patient: %w", err)
	}
	return &s, nil
}

func (p *PostgresStore) UpdateSubject(ctx context.Context, id string, s subject.Subject) (*subject.Subject, error) {
	s.PatientID = id
	tag, err := p.pool.Exec(ctx,
		`UPDATE patients SET abha_number=$2, name=$3, dob=$4, age=$5, gender=$6,
		        insurance_tier=$7, city=$8, pincode=$9, phone=$10
		 WHERE patient_id=$1`,
		id, s.ABHANumber, s.Name, s.DOB, s.Age, s.Gender, s.InsuranceTier, s.City, s.Pincode, s.Phone)
	if err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (p *PostgresStore) DeleteSubject(ctx context.Context, id string) error {
	// Cascade order matters: children first.
	for _, table := range []string{"lab_results", "allergies", "vitals", "medications", "encounters"} {
		if _, err := p.pool.Exec(ctx, `DELETE FROM `+table+` WHERE patient_id = $1`, id); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	tag, err := p.pool.Exec(ctx, `DELETE FROM patients WHERE patient_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) AddEncounter(ctx context.Context, patientID string, e subject.Encounter) (*subject.Encounter, error) {
	if _, err := p.GetSubject(ctx, patientID); err != nil {
		return nil, err
	}
	if e.EncounterID == "" {
		e.EncounterID = "E-" + uuid.New().String()[:8]
	}
	e.PatientID = patientID
	_, err := p.pool.Exec(ctx,
		`INSERT INTO encounters (encounter_id, patient_id, date, chief_complaint, symptoms, notes)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		e.EncounterID, e.PatientID, e.Date, e.ChiefComplaint, e.Symptoms, e.Notes)
	if err != nil {
		return nil, fmt.Errorf("insert encounter: %w", err)
	}
	return &e, nil
}

func (p *PostgresStore) AddMedication(ctx context.Context, patientID string, m subject.Medication) (*subject.Medication, error) {
	if _, err := p.GetSubject(ctx, patientID); err != nil {
		return nil, err
	}
	if m.MedID == "" {
		m.MedID = "M-" + uuid.New().String()[:8]
	}
	m.PatientID = patientID
	_, err := p.pool.Exec(ctx,
		`INSERT INTO medications (med_id, patient_id, drug_name, dosage, frequency, status)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		m.MedID, m.PatientID, m.DrugName, m.Dosage, m.Frequency, m.Status)
	if err != nil {
		return nil, fmt.Errorf("insert medication: %w", err)
	}
	return &m, nil
}

func (p *PostgresStore) AddVitals(ctx context.Context, patientID string, v subject.Vital) (*subject.Vital, error) {
	if _, err := p.GetSubject(ctx, patientID); err != nil {
		return nil, err
	}
	if v.VitalID == "" {
		v.VitalID = "V-" + uuid.New().String()[:8]
	}
	v.PatientID = patientID
	_, err := p.pool.Exec(ctx,
		`INSERT INTO vitals (vital_id, patient_id, timestamp, heart_rate, blood_pressure_systolic,
		        blood_pressure_diastolic, temperature, oxygen_saturation, respiratory_rate)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		v.VitalID, v.PatientID, v.Timestamp, v.HeartRate, v.BPSystolic, v.BPDiastolic,
		v.Temperature, v.OxygenSaturation, v.RespiratoryRate)
	if err != nil {
		return nil, fmt.Errorf("insert vitals: %w", err)
	}
	return &v, nil
}

func (p *PostgresStore) AddAllergy(ctx context.Context, patientID string, a subject.Allergy) (*subject.Allergy, error) {
	if _, err := p.GetSubject(ctx, patientID); err != nil {
		return nil, err
	}
	if a.AllergyID == "" {
		a.AllergyID = "A-" + uuid.New().String()[:8]
	}
	a.PatientID = patientID
	_, err := p.pool.Exec(ctx,
		`INSERT INTO allergies (allergy_id, patient_id, allergen, reaction, severity)
		 VALUES ($1,$2,$3,$4,$5)`,
		a.AllergyID, a.PatientID, a.Allergen, a.Reaction, a.Severity)
	if err != nil {
		return nil, fmt.Errorf("insert allergy: %w", err)
	}
	return &a, nil
}

func (p *PostgresStore) AddLabResult(ctx context.Context, patientID string, l subject.LabResult) (*subject.LabResult, error) {
	if _, err := p.GetSubject(ctx, patientID); err != nil {
		return nil, err
	}
	if l.LabID == "" {
		l.LabID = "L-" + uuid.New().String()[:8]
	}
	l.PatientID = patientID
	_, err := p.pool.Exec(ctx,
		`INSERT INTO lab_results (lab_id, patient_id, test_name, result_value, unit, reference_range, flag, date)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		l.LabID, l.PatientID, l.TestName, l.ResultValue, l.Unit, l.ReferenceRange, l.Flag, l.Date)
	if err != nil {
		return nil, fmt.Errorf("insert lab result: %w", err)
	}
	return &l, nil
}
