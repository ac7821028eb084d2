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

// ChatHandler runs one doctor/patient exchange per request.
type ChatHandler struct {
	Store   store.Gateway
	Patient *simulation.PatientSimulator
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(gw store.Gateway, patient *simulation.PatientSimulator) *ChatHandler {
	return &ChatHandler{Store: gw, Patient: patient}
}

// ChatRequest is the doctor's message. Without a conversationId a new session
// is started.
type ChatRequest struct {
	ConversationID string                     `json:"conversationId"`
	Message        string                     `json:"message" binding:"required"`
	PatientInfo    *simulation.PatientProfile `json:"patientInfo"`
}

// ChatResponse carries the session and the two messages added by this turn.
type ChatResponse struct {
	Conversation *models.Conversation `json:"conversation"`
	Messages     []models.Message     `json:"messages"`
}

// Chat appends the doctor's message and the simulated patient's reply. When
// the model fails the patient answers with simulation.FallbackReply so the
// session stays usable.
func (h *ChatHandler) Chat(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req ChatRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	ctx := c.Request.Context()

	var conv *models.Conversation
	if req.ConversationID == "" {
		var profile simulation.PatientProfile
		if req.PatientInfo != nil {
			profile = *req.PatientInfo
		}
		created, err := h.Store.CreateConversation(ctx, userID, "", profile)
		if err != nil {
			log.Printf("chat: create conversation for %s: %v", userID, err)
			utils.InternalServerError(c, "Failed to create conversation")
			return
		}
		conv = created
	} else {
		if conv, ok = ownedConversation(c, h.Store, req.ConversationID); !ok {
			return
		}
	}

	history, err := h.Store.ListMessages(ctx, conv.ID)
	if err != nil {
		log.Printf("chat: list messages of %s: %v", conv.ID, err)
		utils.InternalServerError(c, "Failed to fetch messages")
		return
	}

	userMsg, err := h.Store.AppendMessage(ctx, conv.ID, models.MessageRoleUser, req.Message)
	if err != nil {
		log.Printf("chat: append user message to %s: %v", conv.ID, err)
		utils.InternalServerError(c, "Failed to save message")
		return
	}

	profile := conv.Profile()
	if profile.IsEmpty() && req.PatientInfo != nil {
		profile = *req.PatientInfo
	}

	transcript := store.Transcript(append(history, *userMsg))
	reply, used, genErr := h.Patient.NextTurn(ctx, transcript, profile)
	if genErr != nil {
		log.Printf("chat: conversation %s: %v", conv.ID, genErr)
		reply = simulation.FallbackReply
	}

	if !conv.HasProfile && !used.IsEmpty() {
		err := h.Store.SaveProfile(ctx, conv.ID, used)
		switch {
		case err == nil:
			conv.SetProfile(used)
		case errors.Is(err, store.ErrProfileAlreadySet):
			// a concurrent first turn won; report the stored patient
			if stored, loadErr := h.Store.LoadConversation(ctx, conv.ID); loadErr == nil {
				conv = stored
			}
		default:
			log.Printf("chat: save profile of %s: %v", conv.ID, err)
		}
	}

	assistantMsg, err := h.Store.AppendMessage(ctx, conv.ID, models.MessageRoleAssistant, reply)
	if err != nil {
		log.Printf("chat: append reply to %s: %v", conv.ID, err)
		utils.InternalServerError(c, "Failed to save reply")
		return
	}

	utils.Success(c, "Message sent successfully", ChatResponse{
		Conversation: conv,
		Messages:     []models.Message{*userMsg, *assistantMsg},
	})
}
