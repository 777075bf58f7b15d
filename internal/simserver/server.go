// Package simserver is the remote side of the triage protocol: the subject
// directory REST API and the per-subject streaming channel, emitting the
// same event sequence the production swarm emits. It exists so the consumer
// core can be exercised end to end without the real agent backend.
package simserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/AbsSadhu/AuraTriage/internal/subject"
	"github.com/AbsSadhu/AuraTriage/internal/triage"
)

type Server struct {
	store  SubjectStore
	swarm  *Swarm
	router chi.Router
	port   int
}

func NewServer(store SubjectStore, agentDelay time.Duration, port int) *Server {
	srv := &Server{
		store: store,
		swarm: &Swarm{Delay: agentDelay},
		port:  port,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", srv.handleHealth)

		r.Get("/patients", srv.handleListSubjects)
		r.Post("/patients", srv.handleCreateSubject)
		r.Get("/patients/abha/{abha}", srv.handleGetByABHA)
		r.Get("/patients/{patientID}", srv.handleGetDetail)
		r.Put("/patients/{patientID}", srv.handleUpdateSubject)
		r.Delete("/patients/{patientID}", srv.handleDeleteSubject)

		r.Post("/patients/{patientID}/encounters", srv.handleAddEncounter)
		r.Post("/patients/{patientID}/medications", srv.handleAddMedication)
		r.Post("/patients/{patientID}/vitals", srv.handleAddVitals)
		r.Post("/patients/{patientID}/allergies", srv.handleAddAllergy)
		r.Post("/patients/{patientID}/labs", srv.handleAddLabResult)

		r.Post("/extract-symptoms", srv.handleExtractSymptoms)
		r.Post("/ocr-prescription", srv.handleOCRPrescription)
		r.Post("/parse-pdf", srv.handleParsePDF)
		r.Post("/transcribe", srv.handleTranscribe)
	})

	r.Get("/ws/triage/{patientID}", srv.handleTriageChannel)

	srv.router = r
	return srv
}

// Handler exposes the router for httptest in end-to-end tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("starting triage simulator", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	subjects, _ := s.store.ListSubjects(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"service":  "swarmsim",
		"subjects": len(subjects),
	})
}

func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.store.ListSubjects(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	// Listing ships the age-based summary only; the full computed score is
	// a detail-view concern.
	for i := range subjects {
		subjects[i].Risk = LightweightRisk(subjects[i].Age)
	}
	writeJSON(w, http.StatusOK, map[string]any{"patients": subjects})
}

func (s *Server) handleGetDetail(w http.ResponseWriter, r *http.Request) {
	s.writeDetail(w, r, chi.URLParam(r, "patientID"))
}

func (s *Server) handleGetByABHA(w http.ResponseWriter, r *http.Request) {
	sub, err := s.store.GetSubjectByABHA(r.Context(), chi.URLParam(r, "abha"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.writeDetail(w, r, sub.PatientID)
}

func (s *Server) writeDetail(w http.ResponseWriter, r *http.Request, id string) {
	d, err := s.store.GetDetail(r.Context(), id)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"patient": d,
		"risk":    CalculateRisk(d),
	})
}

func (s *Server) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var payload subject.Subject
	if !decodeBody(w, r, &payload) {
		return
	}
	if payload.Name == "" {
		writeError(w, http.StatusBadRequest, "Patient name is required")
		return
	}
	created, err := s.store.CreateSubject(r.Context(), payload)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"patient": created, "message": "Patient created successfully"})
}

func (s *Server) handleUpdateSubject(w http.ResponseWriter, r *http.Request) {
	var payload subject.Subject
	if !decodeBody(w, r, &payload) {
		return
	}
	updated, err := s.store.UpdateSubject(r.Context(), chi.URLParam(r, "patientID"), payload)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"patient": updated, "message": "Patient updated successfully"})
}

func (s *Server) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")
	if err := s.store.DeleteSubject(r.Context(), id); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Patient %s and all records deleted", id)})
}

func (s *Server) handleAddEncounter(w http.ResponseWriter, r *http.Request) {
	var payload subject.Encounter
	if !decodeBody(w, r, &payload) {
		return
	}
	created, err := s.store.AddEncounter(r.Context(), chi.URLParam(r, "patientID"), payload)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"encounter": created, "message": "Encounter created"})
}

func (s *Server) handleAddMedication(w http.ResponseWriter, r *http.Request) {
	var payload subject.Medication
	if !decodeBody(w, r, &payload) {
		return
	}
	if payload.DrugName == "" {
		writeError(w, http.StatusBadRequest, "drug_name is required")
		return
	}
	created, err := s.store.AddMedication(r.Context(), chi.URLParam(r, "patientID"), payload)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"medication": created, "message": "Medication added"})
}

func (s *Server) handleAddVitals(w http.ResponseWriter, r *http.Request) {
	var payload subject.Vital
	if !decodeBody(w, r, &payload) {
		return
	}
	created, err := s.store.AddVitals(r.Context(), chi.URLParam(r, "patientID"), payload)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vitals": created, "message": "Vitals recorded"})
}

func (s *Server) handleAddAllergy(w http.ResponseWriter, r *http.Request) {
	var payload subject.Allergy
	if !decodeBody(w, r, &payload) {
		return
	}
	if payload.Allergen == "" {
		writeError(w, http.StatusBadRequest, "allergen is required")
		return
	}
	created, err := s.store.AddAllergy(r.Context(), chi.URLParam(r, "patientID"), payload)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"allergy": created, "message": "Allergy added"})
}

func (s *Server) handleAddLabResult(w http.ResponseWriter, r *http.Request) {
	var payload subject.LabResult
	if !decodeBody(w, r, &payload) {
		return
	}
	if payload.TestName == "" {
		writeError(w, http.StatusBadRequest, "test_name is required")
		return
	}
	created, err := s.store.AddLabResult(r.Context(), chi.URLParam(r, "patientID"), payload)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lab_result": created, "message": "Lab result added"})
}

func (s *Server) handleExtractSymptoms(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}
	if payload.Text == "" {
		writeError(w, http.StatusBadRequest, "No text provided")
		return
	}
	symptoms := ExtractSymptoms(payload.Text)
	writeJSON(w, http.StatusOK, map[string]any{
		"symptoms":              symptoms,
		"report":                FormatExtractionReport(symptoms),
		"original_text":         payload.Text,
		"normalized_text":       NormalizeHinglish(payload.Text),
		"decoded_abbreviations": DecodeAbbreviations(payload.Text),
	})
}

// The upload endpoints run in demo mode: canned results, no external OCR,
// parsing, or transcription backends.

func (s *Server) handleOCRPrescription(w http.ResponseWriter, r *http.Request) {
	if !readUpload(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"mode":    "mock",
		"result":  mockPrescription,
		"message": "Running in demo mode (no GOOGLE_API_KEY). Set the key for live OCR.",
	})
}

func (s *Server) handleParsePDF(w http.ResponseWriter, r *http.Request) {
	if !readUpload(w, r) {
		return
	}
	text := "[MOCK] Discharge summary: patient stable, continue current medications, review in OPD after 5 days."
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"text":       text,
		"pages":      1,
		"char_count": len(text),
		"message":    "Parsed 1 page(s) in demo mode.",
	})
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if !readUpload(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"text":     "Patient ko seene mein dard hai aur saans phoolna bhi. Troponin repeat karo.",
		"language": "hi",
		"message":  "Transcribed in demo mode.",
	})
}

var mockPrescription = map[string]any{
	"medications": []map[string]any{
		{
			"drug_name":         "Augmentin 625",
			"generic_molecule":  "Amoxicillin + Clavulanic Acid",
			"dosage":            "625mg",
			"frequency":         "BD",
			"frequency_decoded": "Twice daily after food",
			"duration":          "5 days",
			"route":             "oral",
		},
		{
			"drug_name":         "Pan-D",
			"generic_molecule":  "Pantoprazole 40mg + Domperidone 30mg",
			"dosage":            "40mg/30mg",
			"frequency":         "OD BBF",
			"frequency_decoded": "Once daily before breakfast",
			"duration":          "7 days",
			"route":             "oral",
		},
		{
			"drug_name":         "Dolo 650",
			"generic_molecule":  "Paracetamol",
			"dosage":            "650mg",
			"frequency":         "TDS SOS",
			"frequency_decoded": "Three times a day if needed (for fever/pain)",
			"duration":          "3 days",
			"route":             "oral",
		},
	},
	"diagnosis":            "Acute tonsillitis with fever",
	"patient_name":         "Detected from slip",
	"doctor_name":          "Dr. (illegible), Reg. No. partially visible",
	"special_instructions": "Plenty of fluids. Warm saline gargle BD. Follow up after 5 days.",
	"confidence":           0.82,
	"raw_text":             "[MOCK] Prescription decoded in demo mode.",
}

// handleTriageChannel runs one streaming session: one inbound symptom
// frame, then the full event sequence through triage_complete.
func (s *Server) handleTriageChannel(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("triage channel accept failed", "patient", patientID, "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	_, data, err := conn.Read(ctx)
	if err != nil {
		slog.Info("triage channel closed before symptom payload", "patient", patientID)
		return
	}
	var payload struct {
		Symptoms string `json:"symptoms"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		wsjson.Write(ctx, conn, triage.Event{Type: triage.KindError, Message: "invalid symptom payload"})
		conn.Close(websocket.StatusNormalClosure, "bad payload")
		return
	}

	d, err := s.store.GetDetail(ctx, patientID)
	if err != nil {
		wsjson.Write(ctx, conn, triage.Event{Type: triage.KindError, Message: "Patient not found"})
		conn.Close(websocket.StatusNormalClosure, "unknown patient")
		return
	}

	emit := func(ev triage.Event) error {
		return wsjson.Write(ctx, conn, ev)
	}

	symptoms := ExtractSymptoms(payload.Symptoms)
	if err := emit(triage.Event{
		Type:     triage.KindNlpExtraction,
		Symptoms: symptoms,
		Report:   FormatExtractionReport(symptoms),
	}); err != nil {
		return
	}

	risk := CalculateRisk(d)
	if err := emit(triage.Event{Type: triage.KindRiskScore, Risk: risk}); err != nil {
		return
	}

	if err := s.swarm.Run(ctx, d, symptoms, risk, emit); err != nil {
		slog.Info("triage stream ended early", "patient", patientID, "error", err)
		return
	}

	conn.Close(websocket.StatusNormalClosure, "triage complete")
	slog.Info("triage session streamed", "patient", patientID, "symptoms", len(symptoms), "score", risk.Score)
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "Patient not found")
		return
	}
	slog.Error("store operation failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// readUpload consumes the multipart "file" field, which is all the demo
// endpoints need to validate.
func readUpload(w http.ResponseWriter, r *http.Request) bool {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return false
	}
	defer file.Close()
	io.Copy(io.Discard, file)
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
