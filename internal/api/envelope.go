package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bibliotecaonline/biblioteca-server/internal/http/response"
)

// EnvelopeVersion is the envelope format version clients check for.
const EnvelopeVersion = response.Version

// EnvelopeTransformer wraps every typed response body in the shared envelope, so huma
// operations and the plain handlers answer in the same shape.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case response.Envelope:
		return body, nil
	case *response.Envelope:
		return body, nil
	case *APIError:
		return response.Fail(body.Code, body.Message, body.Details), nil
	case error:
		code, _ := strconv.Atoi(status)
		var apiErr *APIError
		if errors.As(body, &apiErr) {
			return response.Fail(apiErr.Code, apiErr.Message, apiErr.Details), nil
		}
		if code < http.StatusBadRequest {
			code = http.StatusInternalServerError
		}
		return response.Fail(statusToCode(code), body.Error(), nil), nil
	}

	return response.OK(v), nil
}
