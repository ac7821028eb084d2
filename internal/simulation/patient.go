package simulation

import (
	"context"
	"strings"
	"time"

	"virtual-patient-server/internal/llm"
)

// FallbackReply is stored in place of a patient turn that could not be generated.
const FallbackReply = "Sorry, I could not generate a response."

const (
	patientTemperature = 0.8
	patientMaxTokens   = 500
)

// Turn is one entry of a conversation transcript.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// PatientSimulator produces the next utterance of the simulated patient.
type PatientSimulator struct {
	LLM      llm.Client
	Profiles *ProfileGenerator
}

// NewPatientSimulator constructs a PatientSimulator.
func NewPatientSimulator(client llm.Client, profiles *ProfileGenerator) *PatientSimulator {
	if profiles == nil {
		profiles = NewProfileGenerator(nil)
	}
	return &PatientSimulator{LLM: client, Profiles: profiles}
}

// NextTurn asks the completion service for the patient's reply to transcript.
// When profile is empty a new one is generated; the profile actually used is
// returned so the caller can persist it for later turns. It is returned even
// when generation fails.
func (s *PatientSimulator) NextTurn(ctx context.Context, transcript []Turn, profile PatientProfile) (string, PatientProfile, error) {
	if profile.IsEmpty() {
		profile = s.Profiles.Generate()
	}

	prompt := ComposePatientSystemPrompt(profile, isFirstTurn(transcript))
	reply, err := s.LLM.Complete(ctx, prompt, toLLMMessages(transcript), llm.Options{
		Temperature:     patientTemperature,
		MaxOutputTokens: patientMaxTokens,
	})
	if err != nil {
		return "", profile, &GenerationError{Op: "next patient turn", Err: err}
	}
	if strings.TrimSpace(reply) == "" {
		return "", profile, &GenerationError{Op: "next patient turn", Err: errEmptyCompletion}
	}
	return reply, profile, nil
}

// isFirstTurn reports whether the patient has not spoken yet.
func isFirstTurn(transcript []Turn) bool {
	for _, t := range transcript {
		if t.Role == llm.RoleAssistant {
			return false
		}
	}
	return true
}

// toLLMMessages drops caller supplied system entries; only the composed
// prompt may speak with the system role.
func toLLMMessages(transcript []Turn) []llm.Message {
	out := make([]llm.Message, 0, len(transcript))
	for _, t := range transcript {
		if t.Role == llm.RoleSystem {
			continue
		}
		out = append(out, llm.Message{Role: t.Role, Content: t.Content})
	}
	return out
}
