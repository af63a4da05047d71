package apperr

import (
	"errors"

	"github.com/gin-gonic/gin"

	"ITAM-backend/internal/platform/logger"
)

type ErrorBody struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func Body(code Code, msg string) ErrorBody {
	var e ErrorBody
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

// BodyFrom renders err for clients. Errors outside the taxonomy never leak their text.
func BodyFrom(err error) ErrorBody {
	var e *Error
	if errors.As(err, &e) {
		return Body(e.Code, e.Message)
	}
	return Body(CodeInternal, "internal server error")
}

// Respond writes err as the JSON error body with its mapped status.
func Respond(c *gin.Context, err error) {
	status := HTTPStatus(err)
	if status >= 500 {
		logger.FromGin(c).WithError(err).Error("request failed")
	}
	c.JSON(status, BodyFrom(err))
}

// Abort is Respond for middleware.
func Abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(HTTPStatus(err), BodyFrom(err))
}
