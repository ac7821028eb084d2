package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"virtual-patient-server/internal/models"
	"virtual-patient-server/internal/simulation"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a referenced conversation does not exist.
	ErrNotFound = errors.New("conversation not found")
	// ErrProfileAlreadySet is returned by SaveProfile when the conversation
	// already has a patient.
	ErrProfileAlreadySet = errors.New("conversation already has a patient profile")
)

// messageTick is the smallest gap between two messages of one conversation.
// MySQL DATETIME(3) keeps milliseconds.
const messageTick = time.Millisecond

// ConversationPreview is a conversation together with its latest message, for
// the sidebar listing.
type ConversationPreview struct {
	models.Conversation
	LastMessage *models.Message `json:"lastMessage,omitempty"`
}

// Gateway stores conversations and their messages.
type Gateway interface {
	CreateConversation(ctx context.Context, userID, title string, profile simulation.PatientProfile) (*models.Conversation, error)
	LoadConversation(ctx context.Context, id string) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]ConversationPreview, error)
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)
	AppendMessage(ctx context.Context, conversationID string, role models.MessageRole, content string) (*models.Message, error)
	// SaveProfile only writes a conversation that has no profile yet.
	SaveProfile(ctx context.Context, conversationID string, profile simulation.PatientProfile) error
	DeleteConversation(ctx context.Context, id string) error
}

var _ Gateway = (*GormGateway)(nil)

// GormGateway implements Gateway on top of gorm.
type GormGateway struct {
	DB  *gorm.DB
	Now func() time.Time
}

// NewGormGateway creates a new GormGateway.
func NewGormGateway(db *gorm.DB) *GormGateway {
	return &GormGateway{DB: db, Now: time.Now}
}

func (g *GormGateway) now() time.Time {
	if g.Now == nil {
		return time.Now().Truncate(messageTick)
	}
	return g.Now().Truncate(messageTick)
}

func (g *GormGateway) CreateConversation(ctx context.Context, userID, title string, profile simulation.PatientProfile) (*models.Conversation, error) {
	if title == "" {
		title = models.DefaultConversationTitle
	}
	now := g.now()
	conv := &models.Conversation{
		BaseModel: models.BaseModel{CreatedAt: now, UpdatedAt: now},
		UserID:    userID,
		Title:     title,
	}
	conv.SetProfile(profile)
	if err := g.DB.WithContext(ctx).Create(conv).Error; err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

func (g *GormGateway) LoadConversation(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := g.DB.WithContext(ctx).First(&conv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load conversation %s: %w", id, err)
	}
	return &conv, nil
}

func (g *GormGateway) ListConversations(ctx context.Context, userID string) ([]ConversationPreview, error) {
	db := g.DB.WithContext(ctx)

	var convs []models.Conversation
	if err := db.Where("user_id = ?", userID).Order("updated_at desc").Find(&convs).Error; err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	previews := make([]ConversationPreview, 0, len(convs))
	for _, c := range convs {
		p := ConversationPreview{Conversation: c}
		var last models.Message
		err := db.Where("conversation_id = ?", c.ID).Order("created_at desc").First(&last).Error
		switch {
		case err == nil:
			p.LastMessage = &last
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("last message of %s: %w", c.ID, err)
		}
		previews = append(previews, p)
	}
	return previews, nil
}

func (g *GormGateway) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	var msgs []models.Message
	err := g.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at asc").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("list messages of %s: %w", conversationID, err)
	}
	return msgs, nil
}

// AppendMessage adds a message and bumps the conversation's updated_at so
// listings show the most recently active session first. Messages of one
// conversation get strictly increasing timestamps; the conversation row update
// comes first so concurrent appends queue behind its lock.
func (g *GormGateway) AppendMessage(ctx context.Context, conversationID string, role models.MessageRole, content string) (*models.Message, error) {
	now := g.now()
	msg := &models.Message{ConversationID: conversationID, Role: role, Content: content}
	err := g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Conversation{}).Where("id = ?", conversationID).Update("updated_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// MySQL reports zero rows when updated_at already holds this value
			var n int64
			if err := tx.Model(&models.Conversation{}).Where("id = ?", conversationID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrNotFound
			}
		}

		var last models.Message
		err := tx.Select("created_at").
			Where("conversation_id = ?", conversationID).
			Order("created_at desc").
			Take(&last).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return err
		case !now.After(last.CreatedAt):
			now = last.CreatedAt.Add(messageTick)
		}

		msg.CreatedAt, msg.UpdatedAt = now, now
		return tx.Create(msg).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("append message to %s: %w", conversationID, err)
	}
	return msg, nil
}

// SaveProfile stores the patient of a conversation that has none yet. It
// returns ErrProfileAlreadySet when another request stored one first.
func (g *GormGateway) SaveProfile(ctx context.Context, conversationID string, profile simulation.PatientProfile) error {
	if profile.IsEmpty() {
		return nil
	}
	conv := models.Conversation{}
	conv.SetProfile(profile)

	res := g.DB.WithContext(ctx).Model(&models.Conversation{}).
		Where("id = ? AND has_profile = ?", conversationID, false).
		Updates(map[string]interface{}{
			"patient_info": conv.PatientInfo,
			"has_profile":  true,
			"updated_at":   g.now(),
		})
	if res.Error != nil {
		return fmt.Errorf("save profile of %s: %w", conversationID, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := g.LoadConversation(ctx, conversationID); err != nil {
			return err
		}
		return ErrProfileAlreadySet
	}
	return nil
}

func (g *GormGateway) DeleteConversation(ctx context.Context, id string) error {
	err := g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Conversation{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete conversation %s: %w", id, err)
	}
	return err
}

// Transcript converts stored messages into the simulation's transcript form.
func Transcript(msgs []models.Message) []simulation.Turn {
	turns := make([]simulation.Turn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, simulation.Turn{
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.CreatedAt,
		})
	}
	return turns
}
