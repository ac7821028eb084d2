package models

import (
	"virtual-patient-server/internal/simulation"

	"gorm.io/datatypes"
)

// DefaultConversationTitle is used when a conversation is created without a title.
const DefaultConversationTitle = "Psychological Consultation"

// Conversation is a practice session between a doctor and one simulated patient.
// CreatedAt marks the start of the session.
type Conversation struct {
	BaseModel
	UserID      string                                       `gorm:"size:36;index;not null" json:"userId"`
	Title       string                                       `gorm:"size:255" json:"title"`
	PatientInfo datatypes.JSONType[simulation.PatientProfile] `json:"patientInfo"`

	// HasProfile is set once a profile is stored; the profile never changes afterwards.
	HasProfile bool `gorm:"not null;default:false" json:"-"`

	// Relations
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

// Profile returns the simulated patient's profile.
func (c *Conversation) Profile() simulation.PatientProfile {
	return c.PatientInfo.Data()
}

// SetProfile replaces the profile in memory.
func (c *Conversation) SetProfile(p simulation.PatientProfile) {
	c.PatientInfo = datatypes.NewJSONType(p)
	c.HasProfile = !p.IsEmpty()
}
