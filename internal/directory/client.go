// Package directory is the HTTP client for the subject directory service:
// patient listing and detail, record CRUD, and the multipart upload helpers.
// Every call is single-shot request/response with no retries or caching.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AbsSadhu/AuraTriage/internal/subject"
	"github.com/AbsSadhu/AuraTriage/internal/triage"
)

const defaultRequestTimeout = 10 * time.Second

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// do runs one request. A connection failure maps to *TransportError, a
// non-2xx status to *RequestError carrying the server's error text.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// errorMessage pulls the server's error text out of a failure body. The
// service uses {"detail": ...}; {"error": ...} is accepted for symmetry.
func errorMessage(data []byte) string {
	var body struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Detail != "" {
		return body.Detail
	}
	return body.Error
}

// List fetches the directory listing. Each record carries the server's
// lightweight age-based risk summary, not the full computed score.
func (c *Client) List(ctx context.Context) ([]subject.Subject, error) {
	var env struct {
		Patients []subject.Subject `json:"patients"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/patients", nil, &env); err != nil {
		return nil, err
	}
	return env.Patients, nil
}

// Get fetches the full record plus the server-computed risk score, which is
// attached to the returned detail.
func (c *Client) Get(ctx context.Context, id string) (*subject.Detail, error) {
	return c.getDetail(ctx, "/api/patients/"+id)
}

// GetByABHA looks a subject up by 14-digit ABHA health ID.
func (c *Client) GetByABHA(ctx context.Context, abha string) (*subject.Detail, error) {
	return c.getDetail(ctx, "/api/patients/abha/"+abha)
}

func (c *Client) getDetail(ctx context.Context, path string) (*subject.Detail, error) {
	var env struct {
		Patient subject.Detail    `json:"patient"`
		Risk    *triage.RiskScore `json:"risk"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	env.Patient.Risk = env.Risk
	return &env.Patient, nil
}

func (c *Client) Create(ctx context.Context, s subject.Subject) (*subject.Subject, error) {
	var env struct {
		Patient subject.Subject `json:"patient"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/patients", s, &env); err != nil {
		return nil, err
	}
	return &env.Patient, nil
}

func (c *Client) Update(ctx context.Context, id string, s subject.Subject) (*subject.Subject, error) {
	var env struct {
		Patient subject.Subject `json:"patient"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/patients/"+id, s, &env); err != nil {
		return nil, err
	}
	return &env.Patient, nil
}

// Delete removes the subject and all nested records.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/patients/"+id, nil, nil)
}

func (c *Client) AddEncounter(ctx context.Context, patientID string, e subject.Encounter) (*subject.Encounter, error) {
	var env struct {
		Encounter subject.Encounter `json:"encounter"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/patients/"+patientID+"/encounters", e, &env); err != nil {
		return nil, err
	}
	return &env.Encounter, nil
}

func (c *Client) AddMedication(ctx context.Context, patientID string, m subject.Medication) (*subject.Medication, error) {
	var env struct {
		Medication subject.Medication `json:"medication"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/patients/"+patientID+"/medications", m, &env); err != nil {
		return nil, err
	}
	return &env.Medication, nil
}

func (c *Client) AddVitals(ctx context.Context, patientID string, v subject.Vital) (*subject.Vital, error) {
	var env struct {
		Vitals subject.Vital `json:"vitals"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/patients/"+patientID+"/vitals", v, &env); err != nil {
		return nil, err
	}
	return &env.Vitals, nil
}

func (c *Client) AddAllergy(ctx context.Context, patientID string, a subject.Allergy) (*subject.Allergy, error) {
	var env struct {
		Allergy subject.Allergy `json:"allergy"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/patients/"+patientID+"/allergies", a, &env); err != nil {
		return nil, err
	}
	return &env.Allergy, nil
}

func (c *Client) AddLabResult(ctx context.Context, patientID string, l subject.LabResult) (*subject.LabResult, error) {
	var env struct {
		LabResult subject.LabResult `json:"lab_result"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/patients/"+patientID+"/labs", l, &env); err != nil {
		return nil, err
	}
	return &env.LabResult, nil
}
