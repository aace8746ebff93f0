package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for a pipeline run.
//
// Metrics:
//   - eventdates_patients_processed_total - patients extracted and reranked
//   - eventdates_patients_failed_total - patients whose processing failed
//   - eventdates_patients_without_dates_total - patients with no surviving candidate
//   - eventdates_notes_processed_total - notes scanned
//   - eventdates_candidates_extracted_total - raw candidates before reranking
//   - eventdates_candidates_returned_total - candidates after reranking
//   - eventdates_patient_duration_seconds - per-patient processing time
type Metrics struct {
	PatientsProcessed   prometheus.Counter
	PatientsFailed      prometheus.Counter
	PatientsWithoutDate prometheus.Counter
	NotesProcessed      prometheus.Counter
	CandidatesExtracted prometheus.Counter
	CandidatesReturned  prometheus.Counter
	PatientDuration     prometheus.Histogram
}

// NewMetrics creates the pipeline metrics and registers them with reg. A
// nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		PatientsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventdates_patients_processed_total",
			Help: "Total number of patients extracted and reranked",
		}),
		PatientsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventdates_patients_failed_total",
			Help: "Total number of patients whose processing failed",
		}),
		PatientsWithoutDate: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventdates_patients_without_dates_total",
			Help: "Total number of patients left with no date candidate",
		}),
		NotesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventdates_notes_processed_total",
			Help: "Total number of clinic notes scanned",
		}),
		CandidatesExtracted: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventdates_candidates_extracted_total",
			Help: "Total number of raw date candidates before reranking",
		}),
		CandidatesReturned: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventdates_candidates_returned_total",
			Help: "Total number of date candidates surviving reranking",
		}),
		PatientDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "eventdates_patient_duration_seconds",
			Help:    "Time to extract and rerank one patient",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}
