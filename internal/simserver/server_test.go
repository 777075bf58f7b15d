package simserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/AbsSadhu/AuraTriage/internal/subject"
	"github.com/AbsSadhu/AuraTriage/internal/triage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(SeededMemoryStore(), 0, 0).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	var body struct {
		Status   string `json:"status"`
		Subjects int    `json:"subjects"`
	}
	resp := getJSON(t, srv.URL+"/api/health", &body)
	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		t.Errorf("unexpected health response: %d %+v", resp.StatusCode, body)
	}
	if body.Subjects != 10 {
		t.Errorf("expected 10 seeded subjects, got %d", body.Subjects)
	}
}

func TestListSubjects_AttachesLightweightRisk(t *testing.T) {
	srv := newTestServer(t)

	var body struct {
		Patients []subject.Subject `json:"patients"`
	}
	getJSON(t, srv.URL+"/api/patients", &body)

	if len(body.Patients) != 10 {
		t.Fatalf("expected 10 patients, got %d", len(body.Patients))
	}
	for _, p := range body.Patients {
		if p.Risk == nil {
			t.Errorf("patient %s missing risk summary", p.PatientID)
		}
	}
	// P005 is 80: the age-only summary puts her YELLOW before any detail
	// view computes the real score.
	for _, p := range body.Patients {
		if p.PatientID == "P005" && p.Risk.TriageLevel != triage.LevelYellow {
			t.Errorf("expected YELLOW summary for P005, got %s", p.Risk.TriageLevel)
		}
	}
}

func TestGetDetail_IncludesComputedRiskAndRecords(t *testing.T) {
	srv := newTestServer(t)

	var body struct {
		Patient subject.Detail    `json:"patient"`
		Risk    *triage.RiskScore `json:"risk"`
	}
	getJSON(t, srv.URL+"/api/patients/P001", &body)

	if body.Patient.Name != "Rajesh Kumar Sharma" {
		t.Errorf("unexpected patient: %+v", body.Patient.Subject)
	}
	if len(body.Patient.Encounters) != 1 || len(body.Patient.Medications) != 3 {
		t.Errorf("unexpected record counts: %d encounters, %d medications",
			len(body.Patient.Encounters), len(body.Patient.Medications))
	}
	if body.Risk == nil || body.Risk.TriageLevel != triage.LevelYellow {
		t.Errorf("unexpected computed risk: %+v", body.Risk)
	}
}

func TestGetDetail_NotFound(t *testing.T) {
	srv := newTestServer(t)

	var body struct {
		Detail string `json:"detail"`
	}
	resp := getJSON(t, srv.URL+"/api/patients/P404", &body)
	if resp.StatusCode != http.StatusNotFound || body.Detail != "Patient not found" {
		t.Errorf("unexpected response: %d %+v", resp.StatusCode, body)
	}
}

func TestGetByABHA(t *testing.T) {
	srv := newTestServer(t)

	var body struct {
		Patient subject.Detail `json:"patient"`
	}
	getJSON(t, srv.URL+"/api/patients/abha/91-1234-5678-9012", &body)
	if body.Patient.PatientID != "P001" {
		t.Errorf("expected P001, got %s", body.Patient.PatientID)
	}
}

func TestCreateSubject_RequiresName(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/patients", "application/json", strings.NewReader(`{"age":30}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAddMedicationAndDelete(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/patients/P002/medications", "application/json",
		strings.NewReader(`{"drug_name":"Montair 10 (Montelukast)","dosage":"10mg","frequency":"OD HS","status":"Active"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var detail struct {
		Patient subject.Detail `json:"patient"`
	}
	getJSON(t, srv.URL+"/api/patients/P002", &detail)
	if len(detail.Patient.Medications) != 2 {
		t.Errorf("expected 2 medications after add, got %d", len(detail.Patient.Medications))
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/patients/P002", nil)
	dresp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	dresp.Body.Close()
	if dresp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 on delete, got %d", dresp.StatusCode)
	}
	if resp := getJSON(t, srv.URL+"/api/patients/P002", nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after cascade delete, got %d", resp.StatusCode)
	}
}

func TestExtractSymptomsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/extract-symptoms", "application/json",
		strings.NewReader(`{"text":"seene mein dard aur saans phoolna"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Symptoms       []triage.Symptom `json:"symptoms"`
		Report         string           `json:"report"`
		NormalizedText string           `json:"normalized_text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if findSymptom(body.Symptoms, "chest pain") == nil || findSymptom(body.Symptoms, "shortness of breath") == nil {
		t.Errorf("unexpected symptoms: %v", body.Symptoms)
	}
	if !strings.Contains(body.NormalizedText, "chest pain") {
		t.Errorf("unexpected normalization: %q", body.NormalizedText)
	}
}

func TestOCRPrescription_DemoMode(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, _ := w.CreateFormFile("file", "rx.jpg")
	part.Write([]byte("fake image"))
	w.Close()

	resp, err := http.Post(srv.URL+"/api/ocr-prescription", w.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Success bool   `json:"success"`
		Mode    string `json:"mode"`
		Result  struct {
			Medications []map[string]any `json:"medications"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Mode != "mock" || len(body.Result.Medications) != 3 {
		t.Errorf("unexpected OCR response: %+v", body)
	}
}

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http")
}

func readEvent(ctx context.Context, t *testing.T, conn *websocket.Conn) triage.Event {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	ev, err := triage.Decode(data)
	if err != nil {
		t.Fatalf("decode frame: %v (%s)", err, data)
	}
	return ev
}

func TestTriageChannel_FullSequence(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	conn, _, err := websocket.Dial(ctx, wsURL(srv.URL)+"/ws/triage/P001", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	if err := wsjson.Write(ctx, conn, map[string]string{"symptoms": "tez seene mein dard aur pasina aana"}); err != nil {
		t.Fatalf("send symptoms: %v", err)
	}

	ev := readEvent(ctx, t, conn)
	if ev.Type != triage.KindNlpExtraction || findSymptom(ev.Symptoms, "chest pain") == nil {
		t.Fatalf("expected nlp_extraction with chest pain, got %+v", ev)
	}
	if ev.Report == "" {
		t.Error("expected extraction report attached")
	}

	ev = readEvent(ctx, t, conn)
	if ev.Type != triage.KindRiskScore || ev.Risk == nil {
		t.Fatalf("expected risk_score, got %+v", ev)
	}

	wantAgents := []string{
		"Chief Diagnostician",
		"Jan Aushadhi Pharmacologist",
		"Financial Auditor & Lab Router",
		"ABHA Compliance Officer",
	}
	for i, agent := range wantAgents {
		thinking := readEvent(ctx, t, conn)
		if thinking.Type != triage.KindAgentThinking || thinking.Agent != agent || thinking.Index != i {
			t.Fatalf("expected thinking for %s (index %d), got %+v", agent, i, thinking)
		}
		result := readEvent(ctx, t, conn)
		if result.Type != triage.KindAgentResult || result.Agent != agent {
			t.Fatalf("expected result for %s, got %+v", agent, result)
		}
		if result.Content == "" || result.Confidence == nil {
			t.Errorf("agent %s result missing content or confidence: %+v", agent, result)
		}
	}

	summarizer := readEvent(ctx, t, conn)
	if summarizer.Type != triage.KindAgentThinking || summarizer.Agent != "Chief Medical Officer (Summarizer)" {
		t.Fatalf("expected summarizer thinking, got %+v", summarizer)
	}

	done := readEvent(ctx, t, conn)
	if done.Type != triage.KindTriageComplete {
		t.Fatalf("expected triage_complete, got %+v", done)
	}
	if !strings.Contains(done.Summary, "FINAL DIAGNOSIS") {
		t.Errorf("summary missing headline section: %q", done.Summary)
	}
}

func TestTriageChannel_UnknownPatient(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	conn, _, err := websocket.Dial(ctx, wsURL(srv.URL)+"/ws/triage/P404", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	if err := wsjson.Write(ctx, conn, map[string]string{"symptoms": "bukhar"}); err != nil {
		t.Fatalf("send symptoms: %v", err)
	}

	ev := readEvent(ctx, t, conn)
	if ev.Type != triage.KindError || ev.Message != "Patient not found" {
		t.Fatalf("expected patient-not-found error event, got %+v", ev)
	}
}

func ExampleFormatExtractionReport() {
	symptoms := ExtractSymptoms("seene mein dard")
	fmt.Println(strings.Split(FormatExtractionReport(symptoms), "\n")[0])
	// Output: ## NLP Symptom Extraction Report
}
