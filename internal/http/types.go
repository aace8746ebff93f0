package http

import "github.com/fyrsmithlabs/eventdates/internal/telemetry"

// ExtractRequest is the request body for POST /api/v1/extract.
type ExtractRequest struct {
	Patients []PatientRequest `json:"patients"`
}

// PatientRequest holds one patient's notes in chronological or file order.
type PatientRequest struct {
	MRN   string        `json:"mrn"`
	Notes []NoteRequest `json:"notes"`
}

// NoteRequest is one clinic note. Date is optional and may be YYYY,
// YYYY-MM or YYYY-MM-DD.
type NoteRequest struct {
	Date string `json:"date,omitempty"`
	Desc string `json:"desc,omitempty"`
	Text string `json:"text"`
}

// ExtractResponse is the response body for POST /api/v1/extract.
type ExtractResponse struct {
	RunID    string            `json:"run_id"`
	Patients []PatientResponse `json:"patients"`
}

// PatientResponse lists a patient's dates, best first.
type PatientResponse struct {
	MRN   string      `json:"mrn"`
	Dates []DateScore `json:"dates"`
}

// DateScore is one ranked date with the snippets supporting it.
type DateScore struct {
	Date     string   `json:"date"`
	Score    float64  `json:"score"`
	Snippets []string `json:"snippets,omitempty"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status    string                  `json:"status"`
	Version   string                  `json:"version,omitempty"`
	Telemetry *telemetry.HealthStatus `json:"telemetry,omitempty"`
}
