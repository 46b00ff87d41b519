package handler

import (
	"net/http"
	"strconv"

	"accessibilityhire/internal/apperr"
	"accessibilityhire/internal/model"

	"github.com/gin-gonic/gin"
)

// respondError renders err with the status of its kind. Causes of provider
// errors stay in the log.
func respondError(c *gin.Context, err error) {
	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Provider("internal", err)
	}
	if e.Kind == apperr.KindProvider {
		_ = c.Error(err)
	}
	c.JSON(apperr.HTTPStatus(e.Kind), model.NewCodedErrorResponse(e.Code, e.Message, ""))
}

func badRequest(c *gin.Context, message, details string) {
	c.JSON(http.StatusBadRequest, model.NewCodedErrorResponse(apperr.CodeRequestInvalid, message, details))
}

// queryLimit parses ?limit=; absent means 0 (service default)
func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		badRequest(c, "limit must be a non-negative integer", "")
		return 0, false
	}
	return n, true
}
