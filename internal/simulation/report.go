package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"virtual-patient-server/internal/llm"
)

const reportTemperature = 0.7

// DiagnosisStatus grades the doctor's diagnosis against the simulated condition.
type DiagnosisStatus string

const (
	StatusAccurate          DiagnosisStatus = "accurate"
	StatusPartiallyAccurate DiagnosisStatus = "partially accurate"
	StatusNotConsistent     DiagnosisStatus = "not consistent"
)

// Valid reports whether s is one of the three permitted literals.
func (s DiagnosisStatus) Valid() bool {
	switch s {
	case StatusAccurate, StatusPartiallyAccurate, StatusNotConsistent:
		return true
	}
	return false
}

// DiagnosisFeedback is the model's verdict on the doctor's diagnosis.
type DiagnosisFeedback struct {
	Status      DiagnosisStatus `json:"status" binding:"required"`
	Explanation string          `json:"explanation"`
}

// SessionReport is the assembled end-of-session report. It is never persisted.
type SessionReport struct {
	PatientInfo         PatientProfile    `json:"patientInfo"`
	SessionDuration     string            `json:"sessionDuration"`
	SummaryOfDiscussion string            `json:"summaryOfDiscussion" binding:"required"`
	EmotionsDetected    []string          `json:"emotionsDetected"`
	AIAnalysis          string            `json:"aiAnalysis"`
	DoctorDiagnosis     string            `json:"doctorDiagnosis"`
	DiagnosisFeedback   DiagnosisFeedback `json:"diagnosisFeedback"`
	SuggestedQuestions  []string          `json:"suggestedQuestions,omitempty"`
}

// ReportSynthesizer asks the completion service for a structured session report.
type ReportSynthesizer struct {
	LLM llm.Client
	Now func() time.Time
}

// NewReportSynthesizer constructs a ReportSynthesizer using the wall clock.
func NewReportSynthesizer(client llm.Client) *ReportSynthesizer {
	return &ReportSynthesizer{LLM: client, Now: time.Now}
}

// Synthesize builds the report for a finished (or ongoing) session that began at startedAt.
func (s *ReportSynthesizer) Synthesize(ctx context.Context, transcript []Turn, profile PatientProfile, startedAt time.Time) (*SessionReport, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	duration := FormatSessionDuration(now().Sub(startedAt))

	raw, err := s.LLM.Complete(ctx, ComposeReportSystemPrompt(profile), toLLMMessages(transcript), llm.Options{
		Temperature: reportTemperature,
		Structured:  true,
	})
	if err != nil {
		return nil, &GenerationError{Op: "synthesize report", Err: err}
	}
	if strings.TrimSpace(raw) == "" {
		return nil, &GenerationError{Op: "synthesize report", Err: errEmptyCompletion}
	}

	report, err := ParseReportJSON(raw)
	if err != nil {
		return nil, err
	}
	report.PatientInfo = profile
	report.SessionDuration = duration
	return report, nil
}

// ParseReportJSON decodes and validates the structured output of the model.
func ParseReportJSON(raw string) (*SessionReport, error) {
	var report SessionReport
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &report); err != nil {
		return nil, &MalformedReportError{Reason: "output is not a JSON object", Err: err}
	}
	if err := ValidateReport(&report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ValidateReport checks the fields the model is responsible for.
func ValidateReport(r *SessionReport) error {
	if strings.TrimSpace(r.SummaryOfDiscussion) == "" {
		return &MalformedReportError{Reason: "summaryOfDiscussion is missing"}
	}
	if !r.DiagnosisFeedback.Status.Valid() {
		return &MalformedReportError{Reason: fmt.Sprintf("diagnosisFeedback.status %q is not one of %q, %q, %q",
			r.DiagnosisFeedback.Status, StatusAccurate, StatusPartiallyAccurate, StatusNotConsistent)}
	}
	if r.EmotionsDetected == nil {
		r.EmotionsDetected = []string{}
	}
	return nil
}

// stripCodeFence tolerates a ```json fence around an otherwise valid object.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
