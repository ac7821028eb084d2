package handlers

import (
	"errors"

	"virtual-patient-server/internal/middleware"
	"virtual-patient-server/internal/models"
	"virtual-patient-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler lets admins manage the practitioners using the simulator.
type UserHandler struct {
	DB *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// UserSummary is a practitioner together with how many sessions they ran.
type UserSummary struct {
	models.UserSanitized
	SessionCount int64 `json:"sessionCount"`
}

// GetUsers lists all practitioners with their session counts.
func (h *UserHandler) GetUsers(c *gin.Context) {
	var users []models.User
	if err := h.DB.Order("created_at asc").Find(&users).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch users: "+err.Error())
		return
	}

	type countRow struct {
		UserID string
		Total  int64
	}
	var rows []countRow
	if err := h.DB.Model(&models.Conversation{}).
		Select("user_id, count(*) as total").
		Group("user_id").
		Scan(&rows).Error; err != nil {
		utils.InternalServerError(c, "Failed to count sessions: "+err.Error())
		return
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.UserID] = r.Total
	}

	summaries := make([]UserSummary, len(users))
	for i := range users {
		summaries[i] = UserSummary{UserSanitized: users[i].Sanitize(), SessionCount: counts[users[i].ID]}
	}

	utils.Success(c, "Users fetched successfully", summaries)
}

// GetUserByID handles fetching a single user by ID (admin).
func (h *UserHandler) GetUserByID(c *gin.Context) {
	user, ok := h.findUser(c, c.Param("id"))
	if !ok {
		return
	}
	utils.Success(c, "User fetched successfully", user.Sanitize())
}

// UpdateUserRequest represents the request body for updating a user by an admin.
type UpdateUserRequest struct {
	Name      string `json:"name" binding:"max=200"`
	Specialty string `json:"specialty" binding:"max=100"`
	Role      string `json:"role" binding:"omitempty,oneof=doctor admin"`
}

// UpdateUser handles updating a user by ID (admin).
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, ok := h.findUser(c, c.Param("id"))
	if !ok {
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Specialty != "" {
		user.Specialty = req.Specialty
	}
	if req.Role != "" {
		user.Role = models.Role(req.Role)
	}

	if err := h.DB.Save(user).Error; err != nil {
		utils.InternalServerError(c, "Failed to update user: "+err.Error())
		return
	}

	utils.Success(c, "User updated successfully", user.Sanitize())
}

// DeleteUser removes a practitioner with their sessions and tokens (admin).
// Admins cannot delete themselves.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if self, _ := middleware.GetUserIDFromContext(c); self == id {
		utils.BadRequest(c, "You cannot delete your own account")
		return
	}

	user, ok := h.findUser(c, id)
	if !ok {
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		sessions := tx.Model(&models.Conversation{}).Select("id").Where("user_id = ?", user.ID)
		if err := tx.Where("conversation_id IN (?)", sessions).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Conversation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", user.ID).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to delete user: "+err.Error())
		return
	}

	utils.Success(c, "User deleted successfully", nil)
}

func (h *UserHandler) findUser(c *gin.Context, id string) (*models.User, bool) {
	if !utils.IsUUID(id) {
		utils.BadRequest(c, "Invalid user ID format")
		return nil, false
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "User not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	return &user, true
}
