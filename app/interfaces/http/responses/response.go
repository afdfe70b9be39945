package responses

import (
	"errors"
	"net/http"

	"evmarket.io/marketplace-api/app/domain/common"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"evmarket.io/marketplace-api/app/utils/logger"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

type GeneralResponse[T any] struct {
	Status string `json:"status"`
	Result T      `json:"result"`
}

type PageResponse[T any] struct {
	Status     string `json:"status"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int64  `json:"total"`
	TotalPages int    `json:"total_pages"`
	Results    []T    `json:"results"`
}

const ResponseCodeOk = "000000"

func NewPageResponse[T any](page *query.Page[T]) PageResponse[T] {
	return PageResponse[T]{
		Status:     ResponseCodeOk,
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
		Results:    page.Items,
	}
}

// StatusFromError maps domain sentinels to HTTP status codes.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrConflict), errors.Is(err, common.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, cache.ErrStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError writes err as an ErrorResponse with the status StatusFromError picks.
// Server-side failures are logged under code and their details withheld from the client.
func AbortWithError(reqCtx *gin.Context, code string, err error) {
	status := StatusFromError(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.GetLogger().WithFields(logrus.Fields{
			"error_code": code,
			"path":       reqCtx.Request.URL.Path,
		}).Error(err)
		message = http.StatusText(status)
	}
	reqCtx.AbortWithStatusJSON(status, ErrorResponse{
		Code:  code,
		Error: message,
	})
}
