package errorbank

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
		code   codes.Code
	}{
		{BadRequest("bad"), http.StatusBadRequest, codes.InvalidArgument},
		{Unauthorized("nope"), http.StatusUnauthorized, codes.Unauthenticated},
		{Forbidden("denied"), http.StatusForbidden, codes.PermissionDenied},
		{Conflict("taken"), http.StatusConflict, codes.AlreadyExists},
		{NotFound("missing"), http.StatusNotFound, codes.NotFound},
		{Unprocessable("invalid"), http.StatusUnprocessableEntity, codes.FailedPrecondition},
		{Internal("boom"), http.StatusInternalServerError, codes.Internal},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.StatusCode(), "kind %s", tc.err.Kind())
		assert.Equal(t, tc.code, tc.err.GRPCCode(), "kind %s", tc.err.Kind())
	}
}

func TestValidation_CarriesFieldDetails(t *testing.T) {
	err := Validation(map[string]any{"phone": "is required"})

	assert.Equal(t, KindBadRequest, err.Kind())
	assert.Equal(t, "validation failed", err.Message())
	assert.Equal(t, "is required", err.Details()["phone"])
}

func TestFrom_PassesThroughAppErrors(t *testing.T) {
	original := NotFound("order not found")

	wrapped := fmt.Errorf("handler: %w", original)
	assert.Equal(t, original, From(wrapped))
	assert.Equal(t, original, From(original))
}

func TestFrom_WrapsUnknownErrors(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	appErr := From(cause)
	require.NotNil(t, appErr)
	assert.Equal(t, KindInternal, appErr.Kind())
	assert.ErrorIs(t, appErr, cause)
}

func TestFrom_Nil(t *testing.T) {
	assert.Nil(t, From(nil))
}

func TestWithCause_Unwrap(t *testing.T) {
	cause := errors.New("root")
	err := Internal("wrapper", WithCause(cause))

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "root")
}
