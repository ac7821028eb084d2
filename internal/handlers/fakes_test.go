package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"virtual-patient-server/internal/llm"
	"virtual-patient-server/internal/middleware"
	"virtual-patient-server/internal/models"
	"virtual-patient-server/internal/simulation"
	"virtual-patient-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var _ store.Gateway = (*memGateway)(nil)

// memGateway keeps conversations in memory.
type memGateway struct {
	mu            sync.Mutex
	conversations map[string]*models.Conversation
	messages      map[string][]models.Message
	clock         time.Time

	// ListMessagesErr, when set, fails ListMessages.
	ListMessagesErr error
	// BeforeSaveProfile runs before SaveProfile takes the lock.
	BeforeSaveProfile func(conversationID string)
}

func newMemGateway() *memGateway {
	return &memGateway{
		conversations: map[string]*models.Conversation{},
		messages:      map[string][]models.Message{},
		clock:         time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (g *memGateway) tick() time.Time {
	g.clock = g.clock.Add(time.Second)
	return g.clock
}

func (g *memGateway) CreateConversation(_ context.Context, userID, title string, profile simulation.PatientProfile) (*models.Conversation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if title == "" {
		title = models.DefaultConversationTitle
	}
	now := g.tick()
	conv := &models.Conversation{
		BaseModel: models.BaseModel{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		UserID:    userID,
		Title:     title,
	}
	conv.SetProfile(profile)
	g.conversations[conv.ID] = conv
	copied := *conv
	return &copied, nil
}

func (g *memGateway) LoadConversation(_ context.Context, id string) (*models.Conversation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	conv, ok := g.conversations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *conv
	return &copied, nil
}

func (g *memGateway) ListConversations(_ context.Context, userID string) ([]store.ConversationPreview, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := []store.ConversationPreview{}
	for _, conv := range g.conversations {
		if conv.UserID != userID {
			continue
		}
		p := store.ConversationPreview{Conversation: *conv}
		if msgs := g.messages[conv.ID]; len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			p.LastMessage = &last
		}
		out = append(out, p)
	}
	return out, nil
}

func (g *memGateway) ListMessages(_ context.Context, conversationID string) ([]models.Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ListMessagesErr != nil {
		return nil, g.ListMessagesErr
	}
	return append([]models.Message{}, g.messages[conversationID]...), nil
}

func (g *memGateway) AppendMessage(_ context.Context, conversationID string, role models.MessageRole, content string) (*models.Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	conv, ok := g.conversations[conversationID]
	if !ok {
		return nil, store.ErrNotFound
	}
	now := g.tick()
	msg := models.Message{
		BaseModel:      models.BaseModel{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}
	g.messages[conversationID] = append(g.messages[conversationID], msg)
	conv.UpdatedAt = now
	return &msg, nil
}

func (g *memGateway) SaveProfile(_ context.Context, conversationID string, profile simulation.PatientProfile) error {
	if g.BeforeSaveProfile != nil {
		g.BeforeSaveProfile(conversationID)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	conv, ok := g.conversations[conversationID]
	if !ok {
		return store.ErrNotFound
	}
	if conv.HasProfile {
		return store.ErrProfileAlreadySet
	}
	conv.SetProfile(profile)
	return nil
}

func (g *memGateway) DeleteConversation(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.conversations[id]; !ok {
		return store.ErrNotFound
	}
	delete(g.conversations, id)
	delete(g.messages, id)
	return nil
}

var _ llm.Client = (*fakeLLM)(nil)

type fakeLLM struct {
	CompleteFunc func(ctx context.Context, systemPrompt string, transcript []llm.Message, opts llm.Options) (string, error)

	CallCount    int32
	LastMessages []llm.Message
}

func (f *fakeLLM) Complete(ctx context.Context, systemPrompt string, transcript []llm.Message, opts llm.Options) (string, error) {
	atomic.AddInt32(&f.CallCount, 1)
	f.LastMessages = transcript
	if f.CompleteFunc != nil {
		return f.CompleteFunc(ctx, systemPrompt, transcript, opts)
	}
	return "", nil
}

func replying(text string) *fakeLLM {
	return &fakeLLM{CompleteFunc: func(context.Context, string, []llm.Message, llm.Options) (string, error) {
		return text, nil
	}}
}

// asUser stands in for AuthMiddleware.
func asUser(userID string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextUserRole, role)
		c.Next()
	}
}
