package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// DecodedMedication is one line item from a decoded prescription image.
type DecodedMedication struct {
	DrugName         string `json:"drug_name"`
	GenericMolecule  string `json:"generic_molecule"`
	Dosage           string `json:"dosage"`
	Frequency        string `json:"frequency"`
	FrequencyDecoded string `json:"frequency_decoded"`
	Duration         string `json:"duration"`
	Route            string `json:"route"`
}

// Prescription is the structured content extracted from a prescription
// image.
type Prescription struct {
	Medications         []DecodedMedication `json:"medications"`
	Diagnosis           string              `json:"diagnosis"`
	PatientName         string              `json:"patient_name,omitempty"`
	DoctorName          string              `json:"doctor_name,omitempty"`
	SpecialInstructions string              `json:"special_instructions,omitempty"`
	Confidence          float64             `json:"confidence"`
	RawText             string              `json:"raw_text"`
}

// PrescriptionResult is the OCR endpoint envelope. Mode is "mock" when the
// server ran without a vision backend.
type PrescriptionResult struct {
	Success bool         `json:"success"`
	Mode    string       `json:"mode,omitempty"`
	Result  Prescription `json:"result"`
	Message string       `json:"message"`
}

// PDFResult is the extracted text of an uploaded document.
type PDFResult struct {
	Success   bool   `json:"success"`
	Text      string `json:"text"`
	Pages     int    `json:"pages"`
	CharCount int    `json:"char_count,omitempty"`
	Message   string `json:"message"`
}

// TranscriptResult is the transcription of an uploaded audio recording.
type TranscriptResult struct {
	Success  bool   `json:"success"`
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
	Message  string `json:"message"`
}

// DecodePrescription uploads a prescription image for OCR decoding.
func (c *Client) DecodePrescription(ctx context.Context, filename string, file io.Reader) (*PrescriptionResult, error) {
	var out PrescriptionResult
	if err := c.upload(ctx, "/api/ocr-prescription", filename, file, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ParsePDF uploads a document for text extraction.
func (c *Client) ParsePDF(ctx context.Context, filename string, file io.Reader) (*PDFResult, error) {
	var out PDFResult
	if err := c.upload(ctx, "/api/parse-pdf", filename, file, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Transcribe uploads an audio recording for transcription.
func (c *Client) Transcribe(ctx context.Context, filename string, file io.Reader) (*TranscriptResult, error) {
	var out TranscriptResult
	if err := c.upload(ctx, "/api/transcribe", filename, file, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// upload posts one file as the multipart "file" field and decodes the JSON
// response. Error mapping matches do.
func (c *Client) upload(ctx context.Context, path, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read upload content: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Op: "POST " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: "POST " + path, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode POST %s response: %w", path, err)
	}
	return nil
}
