package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/panganid/pangan-ingest/internal/domain"
	"github.com/panganid/pangan-ingest/internal/pkg/constants"
)

// httpErrorHandler surfaces coded errors with their carried status;
// anything else answers 500 with the original message.
func httpErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError

	var coded *constants.CodedError
	if errors.As(err, &coded) {
		code = coded.Code()
	}

	_ = c.JSON(code, domain.ErrorResponse{
		Message: err.Error(),
		Code:    code,
	})
}
