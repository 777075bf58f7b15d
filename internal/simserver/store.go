package simserver

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/AbsSadhu/AuraTriage/internal/subject"
)

// ErrNotFound marks a lookup for a subject or record that does not exist.
var ErrNotFound = errors.New("not found")

// SubjectStore is the persistence surface the simulator serves from. Memory
// and Postgres implementations below.
type SubjectStore interface {
	ListSubjects(ctx context.Context) ([]subject.Subject, error)
	GetSubject(ctx context.Context, id string) (*subject.Subject, error)
	GetSubjectByABHA(ctx context.Context, abha string) (*subject.Subject, error)
	GetDetail(ctx context.Context, id string) (*subject.Detail, error)
	CreateSubject(ctx context.Context, s subject.Subject) (*subject.Subject, error)
	UpdateSubject(ctx context.Context, id string, s subject.Subject) (*subject.Subject, error)
	DeleteSubject(ctx context.Context, id string) error

	AddEncounter(ctx context.Context, patientID string, e subject.Encounter) (*subject.Encounter, error)
	AddMedication(ctx context.Context, patientID string, m subject.Medication) (*subject.Medication, error)
	AddVitals(ctx context.Context, patientID string, v subject.Vital) (*subject.Vital, error)
	AddAllergy(ctx context.Context, patientID string, a subject.Allergy) (*subject.Allergy, error)
	AddLabResult(ctx context.Context, patientID string, l subject.LabResult) (*subject.LabResult, error)
}

// MemoryStore is the in-process store: the default when no database is
// configured, and the test double.
type MemoryStore struct {
	mu          sync.RWMutex
	subjects    map[string]subject.Subject
	order       []string
	encounters  map[string][]subject.Encounter
	medications map[string][]subject.Medication
	vitals      map[string][]subject.Vital
	allergies   map[string][]subject.Allergy
	labs        map[string][]subject.LabResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subjects:    make(map[string]subject.Subject),
		encounters:  make(map[string][]subject.Encounter),
		medications: make(map[string][]subject.Medication),
		vitals:      make(map[string][]subject.Vital),
		allergies:   make(map[string][]subject.Allergy),
		labs:        make(map[string][]subject.LabResult),
	}
}

func (m *MemoryStore) ListSubjects(ctx context.Context) ([]subject.Subject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]subject.Subject, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.subjects[id])
	}
	return out, nil
}

func (m *MemoryStore) GetSubject(ctx context.Context, id string) (*subject.Subject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.subjects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) GetSubjectByABHA(ctx context.Context, abha string) (*subject.Subject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order {
		if s := m.subjects[id]; s.ABHANumber == abha {
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetDetail(ctx context.Context, id string) (*subject.Detail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.subjects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &subject.Detail{
		Subject:     s,
		Encounters:  append([]subject.Encounter(nil), m.encounters[id]...),
		Medications: append([]subject.Medication(nil), m.medications[id]...),
		Vitals:      append([]subject.Vital(nil), m.vitals[id]...),
		Allergies:   append([]subject.Allergy(nil), m.allergies[id]...),
		LabResults:  append([]subject.LabResult(nil), m.labs[id]...),
	}, nil
}

func (m *MemoryStore) CreateSubject(ctx context.Context, s subject.Subject) (*subject.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.PatientID == "" {
		s.PatientID = "P-" + uuid.New().String()[:8]
	}
	m.subjects[s.PatientID] = s
	m.order = append(m.order, s.PatientID)
	return &s, nil
}

func (m *MemoryStore) UpdateSubject(ctx context.Context, id string, s subject.Subject) (*subject.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subjects[id]; !ok {
		return nil, ErrNotFound
	}
	s.PatientID = id
	m.subjects[id] = s
	return &s, nil
}

// DeleteSubject removes the subject and cascades to every nested record.
func (m *MemoryStore) DeleteSubject(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subjects[id]; !ok {
		return ErrNotFound
	}
	delete(m.subjects, id)
	delete(m.encounters, id)
	delete(m.medications, id)
	delete(m.vitals, id)
	delete(m.allergies, id)
	delete(m.labs, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore) AddEncounter(ctx context.Context, patientID string, e subject.Encounter) (*subject.Encounter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subjects[patientID]; !ok {
		return nil, ErrNotFound
	}
	if e.EncounterID == "" {
		e.EncounterID = "E-" + uuid.New().String()[:8]
	}
	e.PatientID = patientID
	// Newest first: risk scoring reads index 0 as the latest encounter.
	m.encounters[patientID] = append([]subject.Encounter{e}, m.encounters[patientID]...)
	return &e, nil
}

func (m *MemoryStore) AddMedication(ctx context.Context, patientID string, med subject.Medication) (*subject.Medication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subjects[patientID]; !ok {
		return nil, ErrNotFound
	}
	if med.MedID == "" {
		med.MedID = "M-" + uuid.New().String()[:8]
	}
	med.PatientID = patientID
	m.medications[patientID] = append(m.medications[patientID], med)
	return &med, nil
}

func (m *MemoryStore) AddVitals(ctx context.Context, patientID string, v subject.Vital) (*subject.Vital, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subjects[patientID]; !ok {
		return nil, ErrNotFound
	}
	if v.VitalID == "" {
		v.VitalID = "V-" + uuid.New().String()[:8]
	}
	v.PatientID = patientID
	m.vitals[patientID] = append([]subject.Vital{v}, m.vitals[patientID]...)
	return &v, nil
}

func (m *MemoryStore) AddAllergy(ctx context.Context, patientID string, a subject.Allergy) (*subject.Allergy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subjects[patientID]; !ok {
		return nil, ErrNotFound
	}
	if a.AllergyID == "" {
		a.AllergyID = "A-" + uuid.New().String()[:8]
	}
	a.PatientID = patientID
	m.allergies[patientID] = append(m.allergies[patientID], a)
	return &a, nil
}

func (m *MemoryStore) AddLabResult(ctx context.Context, patientID string, l subject.LabResult) (*subject.LabResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subjects[patientID]; !ok {
		return nil, ErrNotFound
	}
	if l.LabID == "" {
		l.LabID = "L-" + uuid.New().String()[:8]
	}
	l.PatientID = patientID
	m.labs[patientID] = append(m.labs[patientID], l)
	return &l, nil
}
