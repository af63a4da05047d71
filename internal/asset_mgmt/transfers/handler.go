package transfers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/auth"
	"ITAM-backend/internal/platform/ref"
	"ITAM-backend/internal/platform/validation"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	validation.Setup()
	validation.Register("transfer_status", validation.OneOf(Statuses...))

	h := &Handler{svc: svc}
	admin := auth.RequireRole(auth.RoleAdmin)

	r.POST("/transfers", h.CreateTransfer)
	r.GET("/transfers", h.ListTransfers)
	r.GET("/transfers/pending/count", admin, h.PendingCount)
	r.GET("/transfers/:transfer_id", h.GetTransfer)
	r.PUT("/transfers/:transfer_id", h.UpdateTransfer)

	// 個別アクション
	r.POST("/transfers/:transfer_id/approve", admin, h.act(ActionApprove))
	r.POST("/transfers/:transfer_id/reject", admin, h.act(ActionReject))
	r.POST("/transfers/:transfer_id/complete", admin, h.act(ActionComplete))
	r.POST("/transfers/:transfer_id/cancel", h.act(ActionCancel))
}

func transferID(c *gin.Context) (string, bool) {
	r, err := ref.Parse(c.Param("transfer_id"))
	if err != nil {
		apperr.Respond(c, apperr.Invalid("transfer_id must be a ULID"))
		return "", false
	}
	return r.ID, true
}

func (h *Handler) CreateTransfer(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Invalid(validation.Message(err)))
		return
	}
	res, err := h.svc.Request(c.Request.Context(), auth.ActorFrom(c), req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.Header("Location", "/transfers/"+res.ID)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) ListTransfers(c *gin.Context) {
	var q ListTransfersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperr.Respond(c, apperr.Invalid(validation.Message(err)))
		return
	}
	items, total, err := h.svc.List(c.Request.Context(), auth.ActorFrom(c), q.Filter())
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetTransfer(c *gin.Context) {
	id, ok := transferID(c)
	if !ok {
		return
	}
	res, err := h.svc.Get(c.Request.Context(), auth.ActorFrom(c), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) UpdateTransfer(c *gin.Context) {
	id, ok := transferID(c)
	if !ok {
		return
	}
	var req UpdateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Invalid(validation.Message(err)))
		return
	}
	res, err := h.svc.Update(c.Request.Context(), auth.ActorFrom(c), id, req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type transitionFunc func(*Service, context.Context, auth.Actor, string, Decision) (*Transfer, error)

var transitions = map[Action]transitionFunc{
	ActionApprove:  (*Service).Approve,
	ActionReject:   (*Service).Reject,
	ActionComplete: (*Service).Complete,
	ActionCancel:   (*Service).Cancel,
}

// act serves the POST /transfers/{id}/<action> routes. The body is optional.
func (h *Handler) act(action Action) gin.HandlerFunc {
	run := transitions[action]
	return func(c *gin.Context) {
		id, ok := transferID(c)
		if !ok {
			return
		}
		var d Decision
		if err := c.ShouldBindJSON(&d); err != nil && !errors.Is(err, io.EOF) {
			apperr.Respond(c, apperr.Invalid(validation.Message(err)))
			return
		}
		res, err := run(h.svc, c.Request.Context(), auth.ActorFrom(c), id, d)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func (h *Handler) PendingCount(c *gin.Context) {
	n, err := h.svc.PendingCount(c.Request.Context())
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, PendingCountResponse{PendingCount: n})
}
