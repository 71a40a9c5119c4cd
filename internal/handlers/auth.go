package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/emilythestrangee/restaurant-reviews/backend/internal/auth"
	"github.com/emilythestrangee/restaurant-reviews/backend/internal/config"
	"github.com/emilythestrangee/restaurant-reviews/backend/internal/engine"
	"github.com/emilythestrangee/restaurant-reviews/backend/internal/models"
)

type AuthHandler struct {
	db    *gorm.DB
	cfg   *config.Config
	store *engine.Store[models.User, models.User]
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, store *engine.Store[models.User, models.User]) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, store: store}
}

func (h *AuthHandler) secret() []byte {
	return []byte(h.cfg.TokenSecret)
}

// issueTokens generates a fresh pair and records the refresh token on the
// user row.
func (h *AuthHandler) issueTokens(user *models.User) (auth.TokenPair, error) {
	pair, err := auth.Generate(user.ID, h.secret(), h.cfg.TokenExpires, h.cfg.RefreshTokenExpires)
	if err != nil {
		return auth.TokenPair{}, err
	}

	user.RefreshTokens = append(user.RefreshTokens, pair.RefreshToken)
	if err := h.db.Model(user).Update("refresh_tokens", user.RefreshTokens).Error; err != nil {
		return auth.TokenPair{}, err
	}
	return pair, nil
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "failed to hash password"})
		return
	}

	user := models.User{
		Username:  input.Username,
		Email:     input.Email,
		Password:  string(hashedPassword),
		AvatarURL: input.AvatarURL,
	}

	if _, err := h.store.Create(c.Request.Context(), &user, 0); err != nil {
		writeError(c, err)
		return
	}

	pair, err := h.issueTokens(&user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"avatarUrl":    user.AvatarURL,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// Login handles user login by username or email.
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var user models.User
	res := h.db.Where("email = ? OR username = ?", input.Email, input.Username).Limit(1).Find(&user)
	if res.Error != nil {
		writeError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.String(http.StatusBadRequest, "wrong username/email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.String(http.StatusBadRequest, "wrong username/email or password")
		return
	}

	pair, err := h.issueTokens(&user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		ID:           user.ID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// verifyRefresh checks a refresh token against the user's stored list. A
// token that verifies cryptographically but is missing from the list means it
// was already rotated out, so the whole list is cleared.
func (h *AuthHandler) verifyRefresh(c *gin.Context, refreshToken string) (*models.User, bool) {
	userID, err := auth.Parse(refreshToken, h.secret())
	if err != nil {
		c.String(http.StatusUnauthorized, "Access Denied")
		return nil, false
	}

	var user models.User
	res := h.db.Where("id = ?", userID).Limit(1).Find(&user)
	if res.Error != nil || res.RowsAffected == 0 {
		c.String(http.StatusUnauthorized, "Access Denied")
		return nil, false
	}

	if !slices.Contains(user.RefreshTokens, refreshToken) {
		h.db.Model(&user).Update("refresh_tokens", []string{})
		c.String(http.StatusUnauthorized, "Access Denied")
		return nil, false
	}

	user.RefreshTokens = slices.DeleteFunc(user.RefreshTokens, func(t string) bool {
		return t == refreshToken
	})
	return &user, true
}

// Refresh rotates a refresh token: the presented token is retired and a new
// pair is issued.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, ok := h.verifyRefresh(c, input.RefreshToken)
	if !ok {
		return
	}

	pair, err := h.issueTokens(user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		ID:           user.ID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout retires a refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, ok := h.verifyRefresh(c, input.RefreshToken)
	if !ok {
		return
	}

	if err := h.db.Model(user).Update("refresh_tokens", user.RefreshTokens).Error; err != nil {
		writeError(c, err)
		return
	}
	c.String(http.StatusOK, "success")
}

// GetMe returns the current authenticated user
func (h *AuthHandler) GetMe(c *gin.Context) {
	caller, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user models.User
	res := h.db.Where("id = ?", caller).Limit(1).Find(&user)
	if res.Error != nil || res.RowsAffected == 0 {
		c.String(http.StatusNotFound, "not found")
		return
	}
	c.JSON(http.StatusOK, user)
}
