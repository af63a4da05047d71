package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/validation"
)

type AuthHandler struct{ svc *Service }

// RegisterRoutes mounts login (public) and me (token required).
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &AuthHandler{svc: svc}
	r.POST("/auth/login", h.Login)
	r.GET("/auth/me", svc.Authenticate(), h.Me)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AccountResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	User        AccountResponse `json:"user"`
}

func toAccountResponse(a *Account) AccountResponse {
	return AccountResponse{ID: a.ID, Email: a.Email, Name: a.Name, Role: a.Role, IsActive: a.IsActive}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Invalid(validation.Message(err)))
		return
	}

	token, acct, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        toAccountResponse(acct),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	acct, err := h.svc.Me(c.Request.Context(), ActorFrom(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(acct))
}
