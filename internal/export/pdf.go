// Package export renders session reports for download.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"virtual-patient-server/internal/simulation"

	"github.com/signintech/gopdf"
)

const (
	fontFamily   = "DejaVu"
	textWidth    = 500.0
	pageBottom   = 800.0
	marginTop    = 40.0
	lineHeight   = 14.0
	headingSpace = 18.0
)

// DefaultFontPaths are tried in order after any configured font path.
var DefaultFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
}

// ErrNoFont is returned when none of the candidate TTF fonts could be loaded.
var ErrNoFont = errors.New("no usable TTF font for PDF export")

// RenderPDF lays the report out on A4 pages. fontPath, when set, is tried
// before DefaultFontPaths.
func RenderPDF(r simulation.SessionReport, fontPath string) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := loadFont(pdf, fontPath); err != nil {
		return nil, err
	}

	w := &writer{pdf: pdf}
	w.heading("Session Report", 20)
	w.line(12, fmt.Sprintf("Patient: %s, %d years old, %s", r.PatientInfo.Name, r.PatientInfo.Age, r.PatientInfo.Gender))
	w.line(12, "Condition: "+r.PatientInfo.Condition)
	w.line(12, "Session Duration: "+r.SessionDuration)
	w.gap()

	w.section("Summary of Discussion", r.SummaryOfDiscussion)
	w.section("Emotions Detected", strings.Join(r.EmotionsDetected, ", "))
	w.section("AI Analysis of Patient Condition", r.AIAnalysis)
	w.section("Doctor's Diagnosis", r.DoctorDiagnosis)
	w.section("AI Feedback on Diagnosis", "Status: "+string(r.DiagnosisFeedback.Status)+"\n"+r.DiagnosisFeedback.Explanation)

	if len(r.SuggestedQuestions) > 0 {
		numbered := make([]string, len(r.SuggestedQuestions))
		for i, q := range r.SuggestedQuestions {
			numbered[i] = fmt.Sprintf("%d. %s", i+1, q)
		}
		w.section("Suggested Questions for Future Sessions", strings.Join(numbered, "\n"))
	}
	if w.err != nil {
		return nil, w.err
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func loadFont(pdf *gopdf.GoPdf, fontPath string) error {
	candidates := DefaultFontPaths
	if fontPath != "" {
		candidates = append([]string{fontPath}, DefaultFontPaths...)
	}

	var lastErr error
	for _, path := range candidates {
		if err := pdf.AddTTFFont(fontFamily, path); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: %v", ErrNoFont, lastErr)
}

// writer keeps the first layout error so the body reads top to bottom.
type writer struct {
	pdf *gopdf.GoPdf
	err error
}

func (w *writer) setFont(size int) {
	if w.err != nil {
		return
	}
	w.err = w.pdf.SetFont(fontFamily, "", size)
}

func (w *writer) heading(text string, size int) {
	w.setFont(size)
	w.cell(text)
	w.pdf.Br(headingSpace + 6)
}

func (w *writer) line(size int, text string) {
	w.setFont(size)
	w.cell(text)
	w.pdf.Br(lineHeight + 2)
}

func (w *writer) section(title, body string) {
	w.setFont(14)
	w.cell(title)
	w.pdf.Br(headingSpace)

	w.setFont(11)
	for _, paragraph := range strings.Split(body, "\n") {
		if strings.TrimSpace(paragraph) == "" {
			w.pdf.Br(lineHeight / 2)
			continue
		}
		lines, err := w.pdf.SplitText(paragraph, textWidth)
		if err != nil && w.err == nil {
			w.err = err
			return
		}
		for _, l := range lines {
			w.cell(l)
			w.pdf.Br(lineHeight)
		}
	}
	w.gap()
}

func (w *writer) gap() {
	w.pdf.Br(lineHeight)
}

func (w *writer) cell(text string) {
	if w.err != nil {
		return
	}
	if w.pdf.GetY() > pageBottom {
		w.pdf.AddPage()
		w.pdf.SetY(marginTop)
	}
	w.err = w.pdf.Cell(nil, text)
}
