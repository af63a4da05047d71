package labels

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/auth"
	"ITAM-backend/internal/platform/validation"
)

type LabelsRequest struct {
	AssetIDs []string `json:"asset_ids" binding:"required,min=1"`
	Encoding Encoding `json:"encoding" binding:"omitempty,label_encoding"`
}

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	validation.Setup()
	validation.Register("label_encoding", validation.OneOf(Encodings...))

	h := &Handler{svc: svc}
	r.POST("/assets/labels", auth.RequireRole(auth.RoleAdmin), h.ExportLabels)
}

func (h *Handler) ExportLabels(c *gin.Context) {
	var req LabelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Invalid(validation.Message(err)))
		return
	}
	sheet, err := h.svc.Build(c.Request.Context(), req.AssetIDs, req.Encoding)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if len(sheet.Skipped) > 0 {
		c.Header("X-Skipped-Assets", skippedHeader(sheet.Skipped))
	}
	c.Header("X-Label-Count", strconv.Itoa(sheet.Rows))
	c.Header("Content-Disposition", `attachment; filename="labels.csv"`)
	c.Data(http.StatusOK, contentType(req.Encoding), sheet.Data)
}
