package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/auth"
	"ITAM-backend/internal/platform/validation"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	validation.Setup()
	h := &Handler{svc: svc}
	admin := auth.RequireRole(auth.RoleAdmin)

	r.GET("/analytics/dashboard", h.Dashboard)
	r.GET("/analytics/assets/by-status", admin, h.ByStatus)
	r.GET("/analytics/assets/by-category", admin, h.ByCategory)
	r.GET("/analytics/assets/by-type", admin, h.ByType)
	r.GET("/analytics/assets/by-location", admin, h.ByLocation)
	r.GET("/analytics/assets/warranty-expiring", admin, h.WarrantyExpiring)
	r.GET("/analytics/transfers/monthly", admin, h.MonthlyTransfers)
	r.GET("/analytics/users/asset-allocation", admin, h.UserAllocation)
	r.GET("/analytics/recent-activities", admin, h.RecentActivities)
}

// reply は結果かエラーをそのまま返す
func reply[T any](c *gin.Context, v T, err error) {
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) Dashboard(c *gin.Context) {
	v, err := h.svc.Dashboard(c.Request.Context())
	reply(c, v, err)
}

func (h *Handler) ByStatus(c *gin.Context) {
	v, err := h.svc.ByStatus(c.Request.Context())
	reply(c, v, err)
}

func (h *Handler) ByCategory(c *gin.Context) {
	v, err := h.svc.ByCategory(c.Request.Context())
	reply(c, v, err)
}

func (h *Handler) ByType(c *gin.Context) {
	v, err := h.svc.ByType(c.Request.Context())
	reply(c, v, err)
}

func (h *Handler) ByLocation(c *gin.Context) {
	v, err := h.svc.ByLocation(c.Request.Context())
	reply(c, v, err)
}

func (h *Handler) UserAllocation(c *gin.Context) {
	v, err := h.svc.UserAllocation(c.Request.Context())
	reply(c, v, err)
}

func (h *Handler) MonthlyTransfers(c *gin.Context) {
	v, err := h.svc.MonthlyTransfers(c.Request.Context())
	reply(c, v, err)
}

func (h *Handler) WarrantyExpiring(c *gin.Context) {
	var q WarrantyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperr.Respond(c, apperr.Invalid(validation.Message(err)))
		return
	}
	v, err := h.svc.WarrantyExpiring(c.Request.Context(), q.Days)
	reply(c, v, err)
}

func (h *Handler) RecentActivities(c *gin.Context) {
	var q RecentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperr.Respond(c, apperr.Invalid(validation.Message(err)))
		return
	}
	v, err := h.svc.RecentActivities(c.Request.Context(), q.Limit)
	reply(c, v, err)
}
