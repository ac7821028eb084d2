package export

import (
	"errors"
	"os"
	"testing"

	"virtual-patient-server/internal/simulation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() simulation.SessionReport {
	return simulation.SessionReport{
		PatientInfo:         simulation.PatientProfile{Name: "Morgan", Age: 34, Gender: "female", Condition: "Major Depressive Disorder"},
		SessionDuration:     "25 minutes",
		SummaryOfDiscussion: "Discussed low mood and sleep.",
		EmotionsDetected:    []string{"sad", "tired"},
		AIAnalysis:          "Anhedonia and fatigue are prominent.",
		DoctorDiagnosis:     "Depression",
		DiagnosisFeedback:   simulation.DiagnosisFeedback{Status: simulation.StatusAccurate, Explanation: "Fits the reported symptoms."},
		SuggestedQuestions:  []string{"How is your appetite?"},
	}
}

func TestRenderPDF_NoFont(t *testing.T) {
	saved := DefaultFontPaths
	DefaultFontPaths = nil
	defer func() { DefaultFontPaths = saved }()

	out, err := RenderPDF(sampleReport(), "/nonexistent/font.ttf")
	assert.Nil(t, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoFont))
}

func TestRenderPDF_WithSystemFont(t *testing.T) {
	var font string
	for _, p := range DefaultFontPaths {
		if _, err := os.Stat(p); err == nil {
			font = p
			break
		}
	}
	if font == "" {
		t.Skip("no DejaVu font installed")
	}

	out, err := RenderPDF(sampleReport(), font)
	require.NoError(t, err)
	assert.True(t, len(out) > 4)
	assert.Equal(t, "%PDF", string(out[:4]))
}
