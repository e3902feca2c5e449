package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"stock-simulator/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrPasswordMismatch   = errors.New("passwords don't match")
	ErrInvalidCredentials = errors.New("invalid username and/or password")
)

// AuthHandler serves registration, login, token refresh and logout.
type AuthHandler struct {
	DB         *gorm.DB
	Tokens     TokenStore
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewAuthHandler(db *gorm.DB, tokens TokenStore, secret string, accessTTL, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		DB:         db,
		Tokens:     tokens,
		JWTSecret:  secret,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
}

type registerInput struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidUsername.Error()})
		return
	}
	if input.Password == "" || input.Confirmation == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "insert a valid password"})
		return
	}
	if input.Password != input.Confirmation {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrPasswordMismatch.Error()})
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": ErrDuplicateUsername.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	user := models.User{Username: username, PasswordHash: string(hash)}
	if err := h.DB.Create(&user).Error; err != nil {
		// The unique index is the last line of defense against a racing
		// registration with the same name.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": ErrDuplicateUsername.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"cash":     user.Cash,
	})
}

type loginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// A wrong username and a wrong password produce the same response so
	// the endpoint cannot be used to enumerate accounts.
	var user models.User
	if err := h.DB.Where("username = ?", strings.TrimSpace(input.Username)).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentials.Error()})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentials.Error()})
		return
	}

	accessToken, err := h.signToken(user.ID, h.AccessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	refreshToken, err := h.signToken(user.ID, h.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if err := h.Tokens.Save(c.Request.Context(), refreshToken, user.ID, h.RefreshTTL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

type refreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var input refreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID, err := h.Tokens.UserID(c.Request.Context(), input.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	accessToken, err := h.signToken(userID, h.AccessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": accessToken})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var input refreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.Tokens.Delete(c.Request.Context(), input.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) signToken(userID uint, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.JWTSecret))
}
