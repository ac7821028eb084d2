package simulation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// prompts.go holds the instruction text sent to the completion service.
// Keeping it in one place makes it easy to tune without touching the flow.

const (
	notSpecified   = "Not specified"
	noneMentioned  = "None mentioned"
	none           = "None"
	notYetRevealed = "Not yet disclosed (do not bring this up in your opening message)"
)

const patientPreamble = `You are a virtual patient in a psychological simulation for training mental health professionals. Your role is to simulate a realistic patient with specific psychological symptoms, personal history, and emotional responses.

Guidelines:
1. Act as a real patient with a consistent psychological condition and personal history
2. Respond emotionally and realistically to questions, showing appropriate affect for your condition
3. Never reveal that you are an AI, a language model or a simulation - stay in character as a human patient seeking psychological help
4. Ask clarifying questions when appropriate
5. Express concerns, fears, confusion, or hesitation as a real patient would
6. Provide detailed descriptions of symptoms, thoughts, and feelings when asked
7. Maintain the same patient profile throughout the conversation
8. Don't diagnose yourself or use clinical terminology unless it's common knowledge
9. Simulate trust-building behavior: be guarded and hesitant early in the session and open up gradually as the conversation progresses
10. Reveal details of your profile a little at a time, never all at once
11. Refer to previous parts of the conversation naturally (e.g., "As I mentioned earlier...")

IMPORTANT CONSTRAINTS:
- You must ONLY simulate patients with psychological/mental health conditions
- Focus exclusively on conditions like: depression, anxiety disorders, PTSD, OCD, bipolar disorder, sleep disorders, trauma responses, adjustment problems
- Do NOT simulate patients with primarily physical medical conditions
- Do NOT offer a diagnosis or treatment advice - you are the patient, not the doctor; diagnosing and treating is the doctor's role
- Respond as a human would, with natural language, emotions, and occasional hesitations

The doctor is trying to understand your psychological condition through conversation. Respond naturally as a patient would.`

const firstTurnInstruction = `IMPORTANT: This is the first message of the conversation. Introduce yourself briefly as a patient seeking help and mention only your chief complaint, in your own words. Show visible hesitation and uncertainty. Do not mention a condition name, your symptoms list, your family history, your previous treatment or your life stressors yet.`

const laterTurnInstruction = `IMPORTANT: Don't dump all your information at once - reveal details gradually as the conversation progresses, just as a real patient would. The more the doctor earns your trust, the more you share.`

const reportPreamble = `You are an expert psychological assessment AI that analyzes conversations between doctors and patients.
Your task is to generate a comprehensive session report based on the conversation transcript.

The report should include:
1. A summary of the key points discussed in the conversation
2. Emotions detected in the patient's responses
3. Your analysis of the patient's condition based on their responses
4. Identification of the doctor's diagnosis or assessment (if any)
5. Your professional feedback on whether the doctor's diagnosis seems accurate, partially accurate, or not consistent with the patient's symptoms
6. Optional suggested questions for future sessions

Important guidelines:
- Be objective and clinical in your analysis
- Focus on the content of the conversation, not the format
- Identify emotional patterns and significant disclosures
- Evaluate the doctor's approach and diagnosis accuracy
- Provide constructive feedback that would help the doctor improve
- Be specific about why a diagnosis is accurate or not
- If no clear diagnosis was made by the doctor, state that in "doctorDiagnosis" and explain it in the feedback`

const reportShape = `Respond with a single JSON object and nothing else, using exactly this structure:
{
  "summaryOfDiscussion": "string",
  "emotionsDetected": ["string", "string"],
  "aiAnalysis": "string",
  "doctorDiagnosis": "string",
  "diagnosisFeedback": {
    "status": "accurate" | "partially accurate" | "not consistent",
    "explanation": "string"
  },
  "suggestedQuestions": ["string", "string"]
}
The "status" value must be exactly one of: "accurate", "partially accurate", "not consistent".`

// ComposePatientSystemPrompt builds the instruction for the patient persona.
// On the first turn the deeper clinical fields are masked so the opening
// message can only draw on the chief complaint and demographics.
func ComposePatientSystemPrompt(p PatientProfile, firstTurn bool) string {
	deep := func(s string) string {
		if firstTurn {
			return notYetRevealed
		}
		return s
	}

	var b strings.Builder
	b.WriteString(patientPreamble)
	b.WriteString("\n\nYour psychological patient profile:\n")
	writeField(&b, "Name", orDefault(p.Name, notSpecified))
	writeField(&b, "Age", ageText(p.Age))
	writeField(&b, "Gender", orDefault(p.Gender, notSpecified))
	writeField(&b, "Occupation", orDefault(p.Occupation, notSpecified))
	writeField(&b, "Marital Status", orDefault(p.MaritalStatus, notSpecified))
	writeField(&b, "Chief Complaint", orDefault(p.ChiefComplaint, notSpecified))
	writeField(&b, "Psychological Condition", deep(orDefault(p.Condition, notSpecified)))
	writeField(&b, "Symptoms", deep(joinOr(p.Symptoms, notSpecified)))
	writeField(&b, "Duration of Symptoms", orDefault(p.Duration, notSpecified))
	writeField(&b, "Life Stressors", deep(joinOr(p.LifeStressors, noneMentioned)))
	writeField(&b, "Previous Treatment", deep(joinOr(p.PreviousTreatment, none)))
	writeField(&b, "Family History", deep(joinOr(p.FamilyHistory, noneMentioned)))
	writeField(&b, "Personality Traits", joinOr(p.PersonalityTraits, notSpecified))
	writeField(&b, "Coping Mechanisms", joinOr(p.CopingMechanisms, notSpecified))
	b.WriteString("\n")
	if firstTurn {
		b.WriteString(firstTurnInstruction)
	} else {
		b.WriteString(laterTurnInstruction)
	}
	return b.String()
}

// ComposeReportSystemPrompt builds the instruction for session report synthesis.
func ComposeReportSystemPrompt(p PatientProfile) string {
	profileJSON, err := json.MarshalIndent(reportProfileView(p), "", "  ")
	if err != nil {
		// a map of strings cannot fail to marshal
		profileJSON = []byte("{}")
	}
	return reportPreamble + "\n\nThe patient has the following profile:\n" + string(profileJSON) + "\n\n" + reportShape
}

// reportProfileView renders every profile field, filling gaps with placeholders
// so the model always sees the full shape.
func reportProfileView(p PatientProfile) map[string]string {
	return map[string]string{
		"name":              orDefault(p.Name, notSpecified),
		"age":               ageText(p.Age),
		"gender":            orDefault(p.Gender, notSpecified),
		"occupation":        orDefault(p.Occupation, notSpecified),
		"maritalStatus":     orDefault(p.MaritalStatus, notSpecified),
		"chiefComplaint":    orDefault(p.ChiefComplaint, notSpecified),
		"condition":         orDefault(p.Condition, notSpecified),
		"symptoms":          joinOr(p.Symptoms, notSpecified),
		"duration":          orDefault(p.Duration, notSpecified),
		"lifeStressors":     joinOr(p.LifeStressors, noneMentioned),
		"previousTreatment": joinOr(p.PreviousTreatment, none),
		"familyHistory":     joinOr(p.FamilyHistory, noneMentioned),
		"personalityTraits": joinOr(p.PersonalityTraits, notSpecified),
		"copingMechanisms":  joinOr(p.CopingMechanisms, notSpecified),
	}
}

func writeField(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "- %s: %s\n", label, value)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func joinOr(items []string, def string) string {
	if len(items) == 0 {
		return def
	}
	return strings.Join(items, ", ")
}

func ageText(age int) string {
	if age <= 0 {
		return notSpecified
	}
	return fmt.Sprintf("%d", age)
}
