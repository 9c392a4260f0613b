package public

import (
	"github.com/gin-gonic/gin"

	"github.com/bakehouse-next/internal/http/response"
	"github.com/bakehouse-next/internal/models"
	"github.com/bakehouse-next/internal/service"
)

// RegisterRequest is the account signup request.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// LoginRequest is the login request.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userView struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func toUserView(user *models.User) userView {
	return userView{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}
}

// Register creates a customer account and logs it in.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	user, err := h.UserAuthService.Register(service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "registration failed")
		return
	}
	token, expiresAt, err := h.UserAuthService.GenerateJWT(user)
	if err != nil {
		respondError(c, response.CodeInternal, "registration failed", err)
		return
	}
	response.Success(c, gin.H{
		"user":       toUserView(user),
		"token":      token,
		"expires_at": expiresAt,
	})
}

// Login authenticates and issues a token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	user, token, expiresAt, err := h.UserAuthService.Login(req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "login failed")
		return
	}
	response.Success(c, gin.H{
		"user":       toUserView(user),
		"token":      token,
		"expires_at": expiresAt,
	})
}

// Me returns the authenticated account.
func (h *Handler) Me(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUser(uid)
	if err != nil {
		respondError(c, response.CodeUnauthorized, "authentication required", nil)
		return
	}
	response.Success(c, gin.H{"user": toUserView(user)})
}
