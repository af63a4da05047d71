package assets

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
	validation.Register("asset_status", validation.OneOf(Statuses...))

	h := &Handler{svc: svc}
	admin := auth.RequireRole(auth.RoleAdmin)

	r.GET("/assets", h.ListAssets)
	r.GET("/assets/:asset_id", h.GetAsset)
	r.POST("/assets", admin, h.CreateAsset)
	r.PUT("/assets/:asset_id", admin, h.UpdateAsset)
	r.DELETE("/assets/:asset_id", admin, h.DeleteAsset)

	// bulk
	r.PATCH("/assets/bulk-status", admin, h.BulkUpdateStatus)
	r.PATCH("/assets/bulk-location", admin, h.BulkUpdateLocation)
}

func bindErr(c *gin.Context, err error) {
	apperr.Respond(c, apperr.Invalid(validation.Message(err)))
}

// assetID はパスパラメータを ULID として検証する
func assetID(c *gin.Context) (string, bool) {
	r, err := ref.Parse(c.Param("asset_id"))
	if err != nil {
		apperr.Respond(c, apperr.Invalid("asset_id must be a ULID"))
		return "", false
	}
	return r.ID, true
}

func (h *Handler) ListAssets(c *gin.Context) {
	var q ListAssetsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindErr(c, err)
		return
	}
	items, total, err := h.svc.List(c.Request.Context(), auth.ActorFrom(c), q.Filter())
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, ListAssetsResponse{Assets: items, TotalCount: total})
}

func (h *Handler) GetAsset(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}
	res, err := h.svc.GetForActor(c.Request.Context(), auth.ActorFrom(c), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CreateAsset(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	res, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.Header("Location", "/assets/"+res.ID)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) UpdateAsset(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}
	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	res, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteAsset(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===== bulk =====

func (h *Handler) BulkUpdateStatus(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	res, err := h.svc.BulkUpdateStatus(c.Request.Context(), req.AssetIDs, req.Status)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) BulkUpdateLocation(c *gin.Context) {
	var req BulkLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	res, err := h.svc.BulkUpdateLocation(c.Request.Context(), req.AssetIDs, req.LocationID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
