package simulation

// Condition is a psychological condition the simulated patient can present with.
type Condition struct {
	Name     string
	Symptoms []string
}

var genders = []string{"male", "female", "non-binary"}

var namesByGender = map[string][]string{
	"male":       {"James", "Michael", "David", "John", "Robert", "William", "Thomas", "Daniel", "Matthew", "Joseph", "Christopher", "Andrew", "Ethan", "Joshua", "Anthony"},
	"female":     {"Mary", "Jennifer", "Linda", "Patricia", "Elizabeth", "Susan", "Jessica", "Sarah", "Karen", "Nancy", "Lisa", "Margaret", "Betty", "Sandra", "Ashley"},
	"non-binary": {"Alex", "Jordan", "Taylor", "Casey", "Riley", "Avery", "Quinn", "Morgan", "Skyler", "Reese", "Dakota", "Hayden", "Parker", "Peyton", "Cameron"},
}

var occupations = []string{
	"Teacher", "Office worker", "Retail employee", "Healthcare worker", "Student",
	"Engineer", "Artist", "Unemployed", "Service industry worker", "IT professional",
	"Retired", "Self-employed", "Manager", "Construction worker", "Homemaker",
}

var maritalStatuses = []string{"Single", "Married", "Divorced", "Widowed", "Separated", "In a relationship", "Engaged"}

// Conditions is the fixed catalog of conditions a simulated patient may have.
// Primarily physical conditions are deliberately absent.
var Conditions = []Condition{
	{
		Name: "Major Depressive Disorder",
		Symptoms: []string{
			"Persistent sadness",
			"Loss of interest in activities",
			"Changes in appetite or weight",
			"Sleep disturbances",
			"Fatigue",
			"Feelings of worthlessness or guilt",
			"Difficulty concentrating",
			"Thoughts of death or suicide",
		},
	},
	{
		Name: "Generalized Anxiety Disorder",
		Symptoms: []string{
			"Excessive worry",
			"Restlessness",
			"Fatigue",
			"Difficulty concentrating",
			"Irritability",
			"Muscle tension",
			"Sleep disturbances",
			"Feeling on edge",
		},
	},
	{
		Name: "Post-Traumatic Stress Disorder",
		Symptoms: []string{
			"Intrusive memories of traumatic event",
			"Flashbacks",
			"Nightmares",
			"Avoidance of trauma-related stimuli",
			"Negative changes in thinking and mood",
			"Hypervigilance",
			"Exaggerated startle response",
			"Sleep disturbances",
		},
	},
	{
		Name: "Obsessive-Compulsive Disorder",
		Symptoms: []string{
			"Intrusive, unwanted thoughts (obsessions)",
			"Repetitive behaviors or mental acts (compulsions)",
			"Excessive cleaning or handwashing",
			"Ordering and arranging things",
			"Repeatedly checking things",
			"Counting compulsions",
			"Anxiety when rituals cannot be performed",
			"Time-consuming rituals that interfere with daily activities",
		},
	},
	{
		Name: "Bipolar Disorder",
		Symptoms: []string{
			"Mood episodes alternating between depression and mania/hypomania",
			"Elevated or irritable mood during manic episodes",
			"Increased energy and activity",
			"Racing thoughts",
			"Decreased need for sleep",
			"Impulsive behavior",
			"Grandiose beliefs",
			"Depressive episodes with symptoms of major depression",
		},
	},
	{
		Name: "Social Anxiety Disorder",
		Symptoms: []string{
			"Intense fear of social situations",
			"Worry about being judged negatively",
			"Avoidance of social situations",
			"Physical symptoms like blushing, sweating, trembling",
			"Racing heart in social settings",
			"Mind going blank during conversations",
			"Anticipatory anxiety before social events",
			"Self-consciousness in everyday situations",
		},
	},
	{
		Name: "Insomnia Disorder",
		Symptoms: []string{
			"Difficulty falling asleep",
			"Difficulty staying asleep",
			"Waking up too early",
			"Non-restorative sleep",
			"Daytime fatigue",
			"Irritability",
			"Difficulty concentrating",
			"Worry about sleep",
		},
	},
	{
		Name: "Adjustment Disorder",
		Symptoms: []string{
			"Emotional or behavioral symptoms in response to an identifiable stressor",
			"Distress out of proportion to the severity of the stressor",
			"Significant impairment in social or occupational functioning",
			"Anxiety",
			"Depressed mood",
			"Conduct disturbances",
			"Mixed emotional features",
			"Symptoms developing within 3 months of stressor onset",
		},
	},
}

var symptomDurations = []string{
	"a few weeks", "about a month", "several months", "about six months",
	"nearly a year", "over a year", "several years", "since childhood",
}

// LifeStressors may trigger or exacerbate a condition.
var LifeStressors = []string{
	"Recent job loss or career change",
	"Divorce or relationship breakup",
	"Death of a loved one",
	"Moving to a new city",
	"Financial difficulties",
	"Academic pressure or failure",
	"Workplace bullying or harassment",
	"Childhood trauma or abuse",
	"Domestic violence",
	"Major illness or health scare",
	"Identity or sexuality struggles",
	"Family conflict",
	"Becoming a parent",
	"Empty nest syndrome",
	"Retirement adjustment",
	"Cultural adjustment after immigration",
	"Victim of crime or assault",
	"Military service or combat exposure",
	"Natural disaster survivor",
	"Pandemic-related isolation or loss",
}

// PreviousTreatments lists help the patient may already have sought.
var PreviousTreatments = []string{
	"None", "Therapy briefly", "Medication (discontinued)", "Counseling through work",
	"Self-help books", "Online therapy", "Support group", "Hospitalization", "Tried meditation apps",
}

// FamilyHistories lists family mental-health backgrounds.
var FamilyHistories = []string{
	"Depression in mother", "Father with alcohol use disorder", "Sibling with anxiety",
	"Grandparent with bipolar disorder", "No known family history", "Uncle with schizophrenia",
	"Family history unknown (adopted)",
}

// PersonalityTraits lists traits that color how the patient talks.
var PersonalityTraits = []string{
	"Perfectionist", "People-pleaser", "Introverted", "Extroverted", "Cautious",
	"Risk-taker", "Analytical", "Creative", "Sensitive", "Resilient",
	"Organized", "Spontaneous", "Ambitious", "Laid-back", "Empathetic",
}

// CopingMechanisms lists healthy and unhealthy coping habits.
var CopingMechanisms = []string{
	"Exercise", "Isolation", "Overworking", "Substance use", "Creative outlets",
	"Seeking social support", "Avoidance", "Distraction through media", "Journaling",
	"Mindfulness practices", "Unhealthy eating patterns",
}

// chiefComplaints maps a condition name to the lay phrases a patient would use for it.
var chiefComplaints = map[string][]string{
	"Major Depressive Disorder":      {"feeling sad all the time", "lost interest in everything", "can't get out of bed most days", "feeling empty inside"},
	"Generalized Anxiety Disorder":   {"constant worry about everything", "can't stop my racing thoughts", "always feeling on edge", "overwhelming anxiety"},
	"Post-Traumatic Stress Disorder": {"flashbacks to a traumatic event", "nightmares that won't stop", "feeling constantly on guard", "triggered by everyday situations"},
	"Obsessive-Compulsive Disorder":  {"intrusive thoughts I can't control", "compulsive behaviors taking over my life", "constant need to check things", "rituals that consume hours of my day"},
	"Bipolar Disorder":               {"extreme mood swings", "periods of high energy followed by crashes", "impulsive decisions I later regret", "unstable moods"},
	"Social Anxiety Disorder":        {"paralyzing fear in social situations", "avoiding people and social events", "extreme self-consciousness around others", "panic attacks before social gatherings"},
	"Insomnia Disorder":              {"can't sleep no matter how tired I am", "waking up throughout the night", "exhausted but mind won't shut off", "sleep problems ruining my life"},
	"Adjustment Disorder":            {"can't cope since a recent life change", "overwhelmed by recent events", "not handling stress well lately", "emotional since my life changed"},
}

// fallbackComplaint is used for a condition without an entry in chiefComplaints.
var fallbackComplaint = []string{"feeling unwell mentally"}

// ChiefComplaintsFor returns the complaint phrases for a condition, or the generic fallback.
func ChiefComplaintsFor(condition string) []string {
	if phrases, ok := chiefComplaints[condition]; ok && len(phrases) > 0 {
		return phrases
	}
	return fallbackComplaint
}

// ConditionByName looks up a catalog entry.
func ConditionByName(name string) (Condition, bool) {
	for _, c := range Conditions {
		if c.Name == name {
			return c, true
		}
	}
	return Condition{}, false
}
