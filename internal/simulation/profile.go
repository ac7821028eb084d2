package simulation

import (
	"math/rand"
	"sync"
	"time"
)

const (
	minAge = 18
	maxAge = 75
)

// PatientProfile describes the simulated patient. Field names match the JSON
// the frontend and the report prompt already use.
type PatientProfile struct {
	Name              string   `json:"name,omitempty"`
	Age               int      `json:"age,omitempty"`
	Gender            string   `json:"gender,omitempty"`
	Occupation        string   `json:"occupation,omitempty"`
	MaritalStatus     string   `json:"maritalStatus,omitempty"`
	ChiefComplaint    string   `json:"chiefComplaint,omitempty"`
	Condition         string   `json:"condition,omitempty"`
	Symptoms          []string `json:"symptoms,omitempty"`
	Duration          string   `json:"duration,omitempty"`
	LifeStressors     []string `json:"lifeStressors,omitempty"`
	PreviousTreatment []string `json:"previousTreatment,omitempty"`
	FamilyHistory     []string `json:"familyHistory,omitempty"`
	PersonalityTraits []string `json:"personalityTraits,omitempty"`
	CopingMechanisms  []string `json:"copingMechanisms,omitempty"`
}

// IsEmpty reports whether no attribute of the profile has been set.
func (p PatientProfile) IsEmpty() bool {
	return p.Name == "" && p.Age == 0 && p.Gender == "" && p.Occupation == "" &&
		p.MaritalStatus == "" && p.ChiefComplaint == "" && p.Condition == "" &&
		len(p.Symptoms) == 0 && p.Duration == "" && len(p.LifeStressors) == 0 &&
		len(p.PreviousTreatment) == 0 && len(p.FamilyHistory) == 0 &&
		len(p.PersonalityTraits) == 0 && len(p.CopingMechanisms) == 0
}

// ProfileGenerator produces random patient profiles from the fixed catalogs.
// It is safe for concurrent use.
type ProfileGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewProfileGenerator returns a generator drawing from r. A nil r is replaced
// by a time-seeded source.
func NewProfileGenerator(r *rand.Rand) *ProfileGenerator {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ProfileGenerator{rng: r}
}

// NewSeededProfileGenerator is a convenience for reproducible runs. A zero
// seed means time-seeded.
func NewSeededProfileGenerator(seed int64) *ProfileGenerator {
	if seed == 0 {
		return NewProfileGenerator(nil)
	}
	return NewProfileGenerator(rand.New(rand.NewSource(seed)))
}

// Generate builds a new random profile.
func (g *ProfileGenerator) Generate() PatientProfile {
	g.mu.Lock()
	defer g.mu.Unlock()
	r := g.rng

	age := minAge + r.Intn(maxAge-minAge+1)
	gender := pick(r, genders)
	name := pick(r, namesByGender[gender])
	occupation := pick(r, occupations)
	marital := pick(r, maritalStatuses)

	condition := pick(r, Conditions)
	symptoms := sample(r, condition.Symptoms, 3, 5)
	duration := pick(r, symptomDurations)

	stressors := sample(r, LifeStressors, 1, 3)
	treatments := sample(r, PreviousTreatments, 0, 1)
	family := sample(r, FamilyHistories, 0, 1)
	traits := sample(r, PersonalityTraits, 2, 4)
	coping := sample(r, CopingMechanisms, 1, 3)

	complaint := pick(r, ChiefComplaintsFor(condition.Name))

	return PatientProfile{
		Name:              name,
		Age:               age,
		Gender:            gender,
		Occupation:        occupation,
		MaritalStatus:     marital,
		ChiefComplaint:    complaint,
		Condition:         condition.Name,
		Symptoms:          symptoms,
		Duration:          duration,
		LifeStressors:     stressors,
		PreviousTreatment: treatments,
		FamilyHistory:     family,
		PersonalityTraits: traits,
		CopingMechanisms:  coping,
	}
}
