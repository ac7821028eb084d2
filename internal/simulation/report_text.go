package simulation

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// Section headings of the plain-text report used by the copy and download features.
const (
	headingReport     = "SESSION REPORT"
	headingSummary    = "SUMMARY OF DISCUSSION"
	headingEmotions   = "EMOTIONS DETECTED"
	headingAnalysis   = "AI ANALYSIS OF PATIENT CONDITION"
	headingDiagnosis  = "DOCTOR'S DIAGNOSIS"
	headingFeedback   = "AI FEEDBACK ON DIAGNOSIS"
	headingQuestions  = "SUGGESTED QUESTIONS FOR FUTURE SESSIONS"
	prefixPatient     = "Patient: "
	prefixCondition   = "Condition: "
	prefixDuration    = "Session Duration: "
	prefixStatus      = "Status: "
	ageSuffix         = " years old"
	underline         = '-'
	reportUnderline   = '='
	emotionsSeparator = ", "
)

// RenderReportText renders the report in the plain-text layout offered for
// copy and download.
func RenderReportText(r SessionReport) string {
	var b strings.Builder
	heading := func(title string, mark rune) {
		b.WriteString(title + "\n")
		b.WriteString(strings.Repeat(string(mark), len(title)) + "\n")
	}

	heading(headingReport, reportUnderline)
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s%s, %d%s, %s\n", prefixPatient, r.PatientInfo.Name, r.PatientInfo.Age, ageSuffix, r.PatientInfo.Gender)
	b.WriteString(prefixCondition + r.PatientInfo.Condition + "\n")
	b.WriteString(prefixDuration + r.SessionDuration + "\n\n")

	heading(headingSummary, underline)
	b.WriteString(r.SummaryOfDiscussion + "\n\n")

	heading(headingEmotions, underline)
	b.WriteString(strings.Join(r.EmotionsDetected, emotionsSeparator) + "\n\n")

	heading(headingAnalysis, underline)
	b.WriteString(r.AIAnalysis + "\n\n")

	heading(headingDiagnosis, underline)
	b.WriteString(r.DoctorDiagnosis + "\n\n")

	heading(headingFeedback, underline)
	b.WriteString(prefixStatus + string(r.DiagnosisFeedback.Status) + "\n")
	b.WriteString(r.DiagnosisFeedback.Explanation + "\n")

	if len(r.SuggestedQuestions) > 0 {
		b.WriteString("\n")
		heading(headingQuestions, underline)
		for i, q := range r.SuggestedQuestions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, q)
		}
	}
	return b.String()
}

// ParseReportText reads back a report produced by RenderReportText. Only the
// fields present in the text are recovered; profile details beyond name, age,
// gender and condition are lost in rendering.
func ParseReportText(text string) (*SessionReport, error) {
	var (
		r       SessionReport
		section string
		body    = map[string][]string{}
		sawHead bool
	)

	lines := readLines(text)
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if title := strings.TrimSpace(line); knownHeadings[title] && i+1 < len(lines) && isRule(lines[i+1]) {
			if title == headingReport {
				sawHead = true
			}
			section = title
			i++
			continue
		}

		switch {
		case section == headingReport && strings.HasPrefix(line, prefixPatient):
			if err := parsePatientLine(strings.TrimPrefix(line, prefixPatient), &r.PatientInfo); err != nil {
				return nil, err
			}
		case section == headingReport && strings.HasPrefix(line, prefixCondition):
			r.PatientInfo.Condition = strings.TrimPrefix(line, prefixCondition)
		case section == headingReport && strings.HasPrefix(line, prefixDuration):
			r.SessionDuration = strings.TrimPrefix(line, prefixDuration)
		case section == headingFeedback && strings.HasPrefix(line, prefixStatus) && r.DiagnosisFeedback.Status == "":
			r.DiagnosisFeedback.Status = DiagnosisStatus(strings.TrimPrefix(line, prefixStatus))
		case section != "" && section != headingReport:
			body[section] = append(body[section], line)
		}
	}
	if !sawHead {
		return nil, &MalformedReportError{Reason: "missing " + headingReport + " heading"}
	}

	r.SummaryOfDiscussion = joinBody(body[headingSummary])
	r.AIAnalysis = joinBody(body[headingAnalysis])
	r.DoctorDiagnosis = joinBody(body[headingDiagnosis])
	r.DiagnosisFeedback.Explanation = joinBody(body[headingFeedback])

	r.EmotionsDetected = []string{}
	if emotions := joinBody(body[headingEmotions]); emotions != "" {
		r.EmotionsDetected = strings.Split(emotions, emotionsSeparator)
	}
	for _, q := range body[headingQuestions] {
		if q = strings.TrimSpace(q); q == "" {
			continue
		}
		if dot := strings.Index(q, ". "); dot > 0 {
			if _, err := strconv.Atoi(q[:dot]); err == nil {
				q = q[dot+2:]
			}
		}
		r.SuggestedQuestions = append(r.SuggestedQuestions, q)
	}

	if err := ValidateReport(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

func readLines(text string) []string {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	return lines
}

var knownHeadings = map[string]bool{
	headingReport:    true,
	headingSummary:   true,
	headingEmotions:  true,
	headingAnalysis:  true,
	headingDiagnosis: true,
	headingFeedback:  true,
	headingQuestions: true,
}

// isRule reports whether line is a heading underline. Its length is not
// checked; hand-copied reports rarely match the title exactly.
func isRule(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	return strings.Trim(line, string(underline)) == "" || strings.Trim(line, string(reportUnderline)) == ""
}

func parsePatientLine(s string, p *PatientProfile) error {
	parts := strings.Split(s, ", ")
	if len(parts) < 3 {
		return &MalformedReportError{Reason: "patient line has fewer than three parts"}
	}
	// the name itself may contain ", "
	gender := parts[len(parts)-1]
	ageText := strings.TrimSuffix(parts[len(parts)-2], ageSuffix)
	age, err := strconv.Atoi(ageText)
	if err != nil {
		return &MalformedReportError{Reason: "patient age is not a number", Err: err}
	}
	p.Name = strings.Join(parts[:len(parts)-2], ", ")
	p.Age = age
	p.Gender = gender
	return nil
}

func joinBody(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
