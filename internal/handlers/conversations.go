package handlers

import (
	"errors"
	"log"

	"virtual-patient-server/internal/middleware"
	"virtual-patient-server/internal/models"
	"virtual-patient-server/internal/simulation"
	"virtual-patient-server/internal/store"
	"virtual-patient-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// ConversationHandler handles the doctor's consultation sessions.
type ConversationHandler struct {
	Store store.Gateway
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(gw store.Gateway) *ConversationHandler {
	return &ConversationHandler{Store: gw}
}

// CreateConversationRequest represents the request body for starting a session.
type CreateConversationRequest struct {
	Title       string                     `json:"title" binding:"max=255"`
	PatientInfo *simulation.PatientProfile `json:"patientInfo"`
}

// ConversationMessages is the payload of GetMessages.
type ConversationMessages struct {
	Conversation *models.Conversation `json:"conversation"`
	Messages     []models.Message     `json:"messages"`
}

// GetConversations lists the current user's sessions, most recently active first.
func (h *ConversationHandler) GetConversations(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	previews, err := h.Store.ListConversations(c.Request.Context(), userID)
	if err != nil {
		log.Printf("list conversations for %s: %v", userID, err)
		utils.InternalServerError(c, "Failed to fetch conversations")
		return
	}

	utils.Success(c, "Conversations fetched successfully", previews)
}

// CreateConversation starts a new session, optionally with a fixed patient.
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateConversationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var profile simulation.PatientProfile
	if req.PatientInfo != nil {
		profile = *req.PatientInfo
	}

	conv, err := h.Store.CreateConversation(c.Request.Context(), userID, req.Title, profile)
	if err != nil {
		log.Printf("create conversation for %s: %v", userID, err)
		utils.InternalServerError(c, "Failed to create conversation")
		return
	}

	utils.Created(c, "Conversation created successfully", conv)
}

// GetMessages returns a session and its messages in chronological order.
func (h *ConversationHandler) GetMessages(c *gin.Context) {
	conv, ok := ownedConversation(c, h.Store, c.Param("id"))
	if !ok {
		return
	}

	msgs, err := h.Store.ListMessages(c.Request.Context(), conv.ID)
	if err != nil {
		log.Printf("list messages of %s: %v", conv.ID, err)
		utils.InternalServerError(c, "Failed to fetch messages")
		return
	}

	utils.Success(c, "Messages fetched successfully", ConversationMessages{Conversation: conv, Messages: msgs})
}

// DeleteConversation removes a session and its messages.
func (h *ConversationHandler) DeleteConversation(c *gin.Context) {
	conv, ok := ownedConversation(c, h.Store, c.Param("id"))
	if !ok {
		return
	}

	if err := h.Store.DeleteConversation(c.Request.Context(), conv.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.NotFound(c, "Conversation not found")
			return
		}
		log.Printf("delete conversation %s: %v", conv.ID, err)
		utils.InternalServerError(c, "Failed to delete conversation")
		return
	}

	utils.Success(c, "Conversation deleted successfully", nil)
}

// ownedConversation loads a conversation the current user may access: their
// own, or any for an admin. It writes the error response itself and reports
// false when the handler should stop.
func ownedConversation(c *gin.Context, gw store.Gateway, id string) (*models.Conversation, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return nil, false
	}
	if !utils.IsUUID(id) {
		utils.BadRequest(c, "Invalid conversation ID format")
		return nil, false
	}

	conv, err := gw.LoadConversation(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.NotFound(c, "Conversation not found")
		} else {
			log.Printf("load conversation %s: %v", id, err)
			utils.InternalServerError(c, "Failed to load conversation")
		}
		return nil, false
	}

	role, _ := middleware.GetUserRoleFromContext(c)
	if conv.UserID != userID && role != models.RoleAdmin {
		utils.Forbidden(c, "You do not have access to this conversation")
		return nil, false
	}
	return conv, true
}
