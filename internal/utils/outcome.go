package utils

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/okwaro/sokopesa/internal/pkg/mutation"
	"github.com/okwaro/sokopesa/internal/pkg/remote"
)

// OutcomeResponse maps a mutation outcome onto the HTTP surface. Rollback
// and notification side effects have already run by the time an outcome
// exists; this only picks the status code.
func OutcomeResponse(c echo.Context, out mutation.Outcome, successStatus int) error {
	if out.OK() {
		return SuccessResponse(c, successStatus, "", out.Payload)
	}

	f := out.Failure
	switch f.Kind {
	case mutation.KindValidation:
		return BadRequestResponse(c, f.Detail)
	case mutation.KindConcurrent:
		return ConflictResponse(c, "Another change for this item is still in flight")
	case mutation.KindClient:
		status := f.Status
		if status < 400 || status > 499 {
			status = http.StatusBadRequest
		}
		return ErrorResponseHandler(c, status, f.Detail)
	case mutation.KindServer:
		return BadGatewayResponse(c, "")
	case mutation.KindNetwork:
		return ServiceUnavailableResponse(c, "")
	default:
		return InternalServerErrorResponse(c, "")
	}
}

// GatewayErrorResponse maps a raw gateway error from a read path onto the
// HTTP surface.
func GatewayErrorResponse(c echo.Context, err error) error {
	if f, ok := remote.AsFailure(err); ok {
		switch f.Class {
		case remote.ClassClientError:
			status := f.Status
			if status < 400 || status > 499 {
				status = http.StatusBadRequest
			}
			return ErrorResponseHandler(c, status, f.Detail)
		case remote.ClassServerError:
			return BadGatewayResponse(c, "")
		default:
			return ServiceUnavailableResponse(c, "")
		}
	}
	return BadRequestResponse(c, err.Error())
}
