package locations

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

	r.GET("/locations", h.ListLocations)
	r.GET("/locations/:location_id", h.GetLocation)
	r.GET("/locations/:location_id/assets", h.ListLocationAssets)
	r.POST("/locations", admin, h.CreateLocation)
	r.PUT("/locations/:location_id", admin, h.UpdateLocation)
	r.DELETE("/locations/:location_id", admin, h.DeleteLocation)
}

func locationID(c *gin.Context) (string, bool) {
	r, err := ref.Parse(c.Param("location_id"))
	if err != nil {
		apperr.Respond(c, apperr.Invalid("location_id must be a ULID"))
		return "", false
	}
	return r.ID, true
}

func (h *Handler) ListLocations(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetLocation(c *gin.Context) {
	id, ok := locationID(c)
	if !ok {
		return
	}
	l, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) ListLocationAssets(c *gin.Context) {
	id, ok := locationID(c)
	if !ok {
		return
	}
	list, err := h.svc.Assets(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Invalid(validation.Message(err)))
		return
	}
	l, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.Header("Location", "/locations/"+l.ID)
	c.JSON(http.StatusCreated, l)
}

func (h *Handler) UpdateLocation(c *gin.Context) {
	id, ok := locationID(c)
	if !ok {
		return
	}
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Invalid(validation.Message(err)))
		return
	}
	l, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) DeleteLocation(c *gin.Context) {
	id, ok := locationID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
