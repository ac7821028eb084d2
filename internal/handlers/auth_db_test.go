package handlers

import (
	"net/http"
	"testing"

	"virtual-patient-server/internal/config"
	"virtual-patient-server/internal/models"
	"virtual-patient-server/internal/testdb"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var authCfg = &config.Config{
	Environment:               "development",
	JWTSecret:                 "access-secret",
	JWTRefreshSecret:          "refresh-secret",
	JWTExpirationMinutes:      15,
	JWTRefreshExpirationHours: 24,
}

func authRouter(db *gorm.DB, asUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(db, authCfg)
	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/refresh-token", h.RefreshToken)

	private := r.Group("", asUser(asUserID, models.RoleDoctor))
	private.POST("/logout", h.Logout)
	private.GET("/profile", h.GetProfile)
	private.PUT("/profile", h.UpdateProfile)
	return r
}

func TestRegister_AlwaysCreatesDoctor(t *testing.T) {
	db := testdb.Open(t)
	r := authRouter(db, "")

	w := callJSON(r, http.MethodPost, "/register", gin.H{
		"name":     "Dr Mallory",
		"email":    "mallory@example.com",
		"password": "longenough",
		"role":     "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.UserSanitized
	decode(t, w, &created)
	assert.Equal(t, models.RoleDoctor, created.Role)

	var stored models.User
	require.NoError(t, db.First(&stored, "email = ?", "mallory@example.com").Error)
	assert.Equal(t, models.RoleDoctor, stored.Role)
	assert.True(t, stored.CheckPassword("longenough"))

	w = callJSON(r, http.MethodPost, "/register", gin.H{"name": "Again", "email": "mallory@example.com", "password": "longenough"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func login(t *testing.T, r *gin.Engine, email, password string) LoginResponse {
	t.Helper()
	w := callJSON(r, http.MethodPost, "/login", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp LoginResponse
	decode(t, w, &resp)
	return resp
}

func TestLoginAndRefreshRotation(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.CreateUser(t, db, "doc@example.com", "password123")
	r := authRouter(db, user.ID)

	assert.Equal(t, http.StatusUnauthorized, callJSON(r, http.MethodPost, "/login", gin.H{"email": "doc@example.com", "password": "wrong-password"}).Code)
	assert.Equal(t, http.StatusUnauthorized, callJSON(r, http.MethodPost, "/login", gin.H{"email": "nobody@example.com", "password": "password123"}).Code)

	session := login(t, r, "doc@example.com", "password123")
	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, user.ID, session.User.ID)

	w := callJSON(r, http.MethodPost, "/refresh-token", gin.H{"refreshToken": session.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var rotated RefreshTokenResponse
	decode(t, w, &rotated)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	// the presented token was revoked by the rotation
	assert.Equal(t, http.StatusUnauthorized, callJSON(r, http.MethodPost, "/refresh-token", gin.H{"refreshToken": session.RefreshToken}).Code)
	assert.Equal(t, http.StatusOK, callJSON(r, http.MethodPost, "/refresh-token", gin.H{"refreshToken": rotated.RefreshToken}).Code)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.CreateUser(t, db, "doc@example.com", "password123")
	r := authRouter(db, user.ID)
	session := login(t, r, "doc@example.com", "password123")

	require.Equal(t, http.StatusOK, callJSON(r, http.MethodPost, "/logout", gin.H{"refreshToken": session.RefreshToken}).Code)
	assert.Equal(t, http.StatusUnauthorized, callJSON(r, http.MethodPost, "/refresh-token", gin.H{"refreshToken": session.RefreshToken}).Code)

	// logging out twice still succeeds
	assert.Equal(t, http.StatusOK, callJSON(r, http.MethodPost, "/logout", gin.H{"refreshToken": session.RefreshToken}).Code)
}

func TestProfileUpdate(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.CreateUser(t, db, "doc@example.com", "password123")
	r := authRouter(db, user.ID)

	w := callJSON(r, http.MethodPut, "/profile", gin.H{"specialty": "Psychiatry"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var profile models.UserSanitized
	decode(t, callJSON(r, http.MethodGet, "/profile", nil), &profile)
	assert.Equal(t, "Psychiatry", profile.Specialty)
	assert.Equal(t, user.Name, profile.Name)
}

func TestUserHandler_ListAndCascadingDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testdb.Open(t)
	admin := testdb.CreateUser(t, db, "admin@example.com", "password123")
	doc := testdb.CreateUser(t, db, "doc@example.com", "password123")

	conv := models.Conversation{UserID: doc.ID, Title: "Session"}
	require.NoError(t, db.Create(&conv).Error)
	require.NoError(t, db.Create(&models.Message{ConversationID: conv.ID, Role: models.MessageRoleUser, Content: "Hello"}).Error)

	h := NewUserHandler(db)
	r := gin.New()
	group := r.Group("", asUser(admin.ID, models.RoleAdmin))
	group.GET("/users", h.GetUsers)
	group.PUT("/users/:id", h.UpdateUser)
	group.DELETE("/users/:id", h.DeleteUser)

	var summaries []UserSummary
	decode(t, callJSON(r, http.MethodGet, "/users", nil), &summaries)
	require.Len(t, summaries, 2)
	counts := map[string]int64{}
	for _, s := range summaries {
		counts[s.ID] = s.SessionCount
	}
	assert.Equal(t, int64(1), counts[doc.ID])
	assert.Equal(t, int64(0), counts[admin.ID])

	var promoted models.UserSanitized
	decode(t, callJSON(r, http.MethodPut, "/users/"+doc.ID, gin.H{"role": "admin"}), &promoted)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	require.Equal(t, http.StatusOK, callJSON(r, http.MethodDelete, "/users/"+doc.ID, nil).Code)
	var left int64
	require.NoError(t, db.Model(&models.Message{}).Count(&left).Error)
	assert.Zero(t, left)
	require.NoError(t, db.Model(&models.Conversation{}).Count(&left).Error)
	assert.Zero(t, left)
	assert.Equal(t, http.StatusNotFound, callJSON(r, http.MethodDelete, "/users/"+doc.ID, nil).Code)
}
