package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/auth"
	"ITAM-backend/internal/platform/ref"
	"ITAM-backend/internal/platform/validation"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	validation.Setup()
	h := &Handler{svc: svc}
	admin := auth.RequireRole(auth.RoleAdmin)

	r.GET("/users", admin, h.ListUsers)
	r.POST("/users", admin, h.CreateUser)
	r.GET("/users/:user_id", h.GetUser)
	r.GET("/users/:user_id/assets", h.ListUserAssets)
	r.PUT("/users/:user_id", admin, h.UpdateUser)
	r.DELETE("/users/:user_id", admin, h.DeleteUser)
}

func userID(c *gin.Context) (string, bool) {
	r, err := ref.Parse(c.Param("user_id"))
	if err != nil {
		apperr.Respond(c, apperr.Invalid("user_id must be a ULID"))
		return "", false
	}
	return r.ID, true
}

func (h *Handler) ListUsers(c *gin.Context) {
	var q ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperr.Respond(c, apperr.Invalid(validation.Message(err)))
		return
	}
	list, total, err := h.svc.List(c.Request.Context(), Filter{IsActive: q.IsActive, Skip: q.Skip, Limit: q.Limit})
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, ListUsersResponse{Users: list, TotalCount: total})
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	u, err := h.svc.Get(c.Request.Context(), auth.ActorFrom(c), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) ListUserAssets(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	list, err := h.svc.Assets(c.Request.Context(), auth.ActorFrom(c), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Invalid(validation.Message(err)))
		return
	}
	u, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.Header("Location", "/users/"+u.ID)
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Invalid(validation.Message(err)))
		return
	}
	u, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
