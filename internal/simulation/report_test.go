package simulation

import (
	"context"
	"errors"
	"testing"
	"time"

	"virtual-patient-server/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validReportJSON = `{
  "summaryOfDiscussion": "The patient described constant worry.",
  "emotionsDetected": ["anxious", "tired"],
  "aiAnalysis": "Consistent with generalized anxiety.",
  "doctorDiagnosis": "Generalized Anxiety Disorder",
  "diagnosisFeedback": {"status": "accurate", "explanation": "Matches the reported symptoms."},
  "suggestedQuestions": ["How is your sleep?"],
  "sessionDuration": "model made this up",
  "patientInfo": {"name": "Impostor"}
}`

func TestFormatSessionDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0 minutes"},
		{20 * time.Second, "0 minutes"},
		{time.Minute, "1 minute"},
		{59 * time.Minute, "59 minutes"},
		{60 * time.Minute, "1 hour"},
		{90 * time.Minute, "1 hour and 30 minutes"},
		{125 * time.Minute, "2 hours and 5 minutes"},
		{121 * time.Minute, "2 hours and 1 minute"},
		{59*time.Minute + 40*time.Second, "1 hour"},
		{-5 * time.Minute, "0 minutes"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatSessionDuration(tc.in), tc.in.String())
	}
}

func newSynth(fake *fakeLLM, now time.Time) *ReportSynthesizer {
	s := NewReportSynthesizer(fake)
	s.Now = func() time.Time { return now }
	return s
}

func TestSynthesize_MergesProfileAndDuration(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	fake := replying(validReportJSON)
	profile := PatientProfile{Name: "Jordan", Age: 29, Condition: "Generalized Anxiety Disorder"}
	transcript := []Turn{
		{Role: "system", Content: "leaked"},
		{Role: "user", Content: "I think this is GAD."},
		{Role: "assistant", Content: "Maybe..."},
	}

	report, err := newSynth(fake, start.Add(90*time.Minute)).Synthesize(context.Background(), transcript, profile, start)
	require.NoError(t, err)

	assert.Equal(t, profile, report.PatientInfo)
	assert.Equal(t, "1 hour and 30 minutes", report.SessionDuration)
	assert.Equal(t, StatusAccurate, report.DiagnosisFeedback.Status)
	assert.Equal(t, []string{"anxious", "tired"}, report.EmotionsDetected)

	assert.True(t, fake.LastOptions.Structured)
	assert.InDelta(t, 0.7, fake.LastOptions.Temperature, 0.0001)
	assert.Len(t, fake.LastMessages, 2)
	assert.Contains(t, fake.LastPrompt, "Generalized Anxiety Disorder")
}

func TestSynthesize_RejectsUnknownStatus(t *testing.T) {
	for _, status := range []string{"Accurate", "inaccurate", "", "partially-accurate"} {
		raw := `{"summaryOfDiscussion":"x","emotionsDetected":[],"diagnosisFeedback":{"status":"` + status + `","explanation":"y"}}`
		_, err := newSynth(replying(raw), time.Now()).Synthesize(context.Background(), nil, PatientProfile{}, time.Now())

		var malformed *MalformedReportError
		require.Truef(t, errors.As(err, &malformed), "status %q", status)
	}
}

func TestSynthesize_RejectsNonJSON(t *testing.T) {
	_, err := newSynth(replying("Here is your report: great session!"), time.Now()).
		Synthesize(context.Background(), nil, PatientProfile{}, time.Now())
	var malformed *MalformedReportError
	require.True(t, errors.As(err, &malformed))
}

func TestSynthesize_UpstreamFailure(t *testing.T) {
	fake := &fakeLLM{CompleteFunc: func(context.Context, string, []llm.Message, llm.Options) (string, error) {
		return "", &llm.UpstreamError{StatusCode: 503, Err: errors.New("unavailable")}
	}}
	report, err := newSynth(fake, time.Now()).Synthesize(context.Background(), nil, PatientProfile{}, time.Now())
	assert.Nil(t, report)

	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, "synthesize report", genErr.Op)
	var upstream *llm.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, 503, upstream.StatusCode)
}

func TestParseReportJSON_AcceptsCodeFence(t *testing.T) {
	report, err := ParseReportJSON("```json\n" + validReportJSON + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "Generalized Anxiety Disorder", report.DoctorDiagnosis)
}

func TestReportText_RoundTrip(t *testing.T) {
	original := SessionReport{
		PatientInfo:         PatientProfile{Name: "Sarah", Age: 41, Gender: "female", Condition: "Post-Traumatic Stress Disorder"},
		SessionDuration:     "2 hours and 5 minutes",
		SummaryOfDiscussion: "Discussed nightmares.\n\nPatient opened up about the accident.",
		EmotionsDetected:    []string{"fearful", "guarded"},
		AIAnalysis:          "Hypervigilance and avoidance are prominent.",
		DoctorDiagnosis:     "PTSD",
		DiagnosisFeedback:   DiagnosisFeedback{Status: StatusPartiallyAccurate, Explanation: "Correct category but missed sleep issues."},
		SuggestedQuestions:  []string{"When did the nightmares start?", "Who do you talk to?"},
	}

	text := RenderReportText(original)
	assert.Contains(t, text, "Patient: Sarah, 41 years old, female")

	parsed, err := ParseReportText(text)
	require.NoError(t, err)
	assert.Equal(t, "Sarah", parsed.PatientInfo.Name)
	assert.Equal(t, 41, parsed.PatientInfo.Age)
	assert.Equal(t, "Post-Traumatic Stress Disorder", parsed.PatientInfo.Condition)
	assert.Equal(t, StatusPartiallyAccurate, parsed.DiagnosisFeedback.Status)
	assert.Equal(t, original.DiagnosisFeedback.Explanation, parsed.DiagnosisFeedback.Explanation)
	assert.Equal(t, original.SessionDuration, parsed.SessionDuration)
	assert.Equal(t, original.SummaryOfDiscussion, parsed.SummaryOfDiscussion)
	assert.Equal(t, original.EmotionsDetected, parsed.EmotionsDetected)
	assert.Equal(t, original.SuggestedQuestions, parsed.SuggestedQuestions)
}

func TestParseReportText_Rejects(t *testing.T) {
	_, err := ParseReportText("just some notes")
	var malformed *MalformedReportError
	require.True(t, errors.As(err, &malformed))

	text := RenderReportText(SessionReport{
		PatientInfo:         PatientProfile{Name: "Alex", Age: 30, Gender: "non-binary"},
		SummaryOfDiscussion: "x",
		DiagnosisFeedback:   DiagnosisFeedback{Status: "maybe"},
	})
	_, err = ParseReportText(text)
	require.True(t, errors.As(err, &malformed))
}

func TestParseReportText_RuleLinesInsideBody(t *testing.T) {
	original := SessionReport{
		PatientInfo:         PatientProfile{Name: "Casey", Age: 52, Gender: "male", Condition: "Insomnia Disorder"},
		SessionDuration:     "40 minutes",
		SummaryOfDiscussion: "Key points\n----------\nslept badly",
		EmotionsDetected:    []string{"tired"},
		AIAnalysis:          "Sleep onset problems.\n===\nNo substance use reported.",
		DiagnosisFeedback:   DiagnosisFeedback{Status: StatusNotConsistent, Explanation: "Missed the sleep pattern."},
	}

	parsed, err := ParseReportText(RenderReportText(original))
	require.NoError(t, err)
	assert.Equal(t, original.SummaryOfDiscussion, parsed.SummaryOfDiscussion)
	assert.Equal(t, original.AIAnalysis, parsed.AIAnalysis)
	assert.Equal(t, StatusNotConsistent, parsed.DiagnosisFeedback.Status)
}

// Reports copied from the web client use underlines that do not match the
// heading length and start with a blank line.
const webClientReport = `
SESSION REPORT
==============

Patient: Jordan, 29 years old, non-binary
Condition: Generalized Anxiety Disorder
Session Duration: 1 hour and 5 minutes

SUMMARY OF DISCUSSION
--------------------
The patient described constant worry about work.

EMOTIONS DETECTED
----------------
anxious, restless

AI ANALYSIS OF PATIENT CONDITION
-------------------------------
Worry is excessive and hard to control.

DOCTOR'S DIAGNOSIS
-----------------
GAD

AI FEEDBACK ON DIAGNOSIS
-----------------------
Status: accurate
The diagnosis matches the presentation.


SUGGESTED QUESTIONS FOR FUTURE SESSIONS
--------------------------------------
1. How is your sleep?
2. What helps you relax?

`

func TestParseReportText_WebClientLayout(t *testing.T) {
	parsed, err := ParseReportText(webClientReport)
	require.NoError(t, err)
	assert.Equal(t, "Jordan", parsed.PatientInfo.Name)
	assert.Equal(t, 29, parsed.PatientInfo.Age)
	assert.Equal(t, "Generalized Anxiety Disorder", parsed.PatientInfo.Condition)
	assert.Equal(t, "1 hour and 5 minutes", parsed.SessionDuration)
	assert.Equal(t, "The patient described constant worry about work.", parsed.SummaryOfDiscussion)
	assert.Equal(t, []string{"anxious", "restless"}, parsed.EmotionsDetected)
	assert.Equal(t, "GAD", parsed.DoctorDiagnosis)
	assert.Equal(t, StatusAccurate, parsed.DiagnosisFeedback.Status)
	assert.Equal(t, "The diagnosis matches the presentation.", parsed.DiagnosisFeedback.Explanation)
	assert.Equal(t, []string{"How is your sleep?", "What helps you relax?"}, parsed.SuggestedQuestions)
}
