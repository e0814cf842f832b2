package api_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Paulndambo/nismart-go/api"
)

func TestErrorMapsStatusCodesToSentinels(t *testing.T) {
	require.ErrorIs(t, &api.Error{StatusCode: 401}, api.ErrUnauthorized)
	require.ErrorIs(t, &api.Error{StatusCode: 403}, api.ErrForbidden)
	require.ErrorIs(t, &api.Error{StatusCode: 404}, api.ErrNotFound)

	require.NotErrorIs(t, &api.Error{StatusCode: 500}, api.ErrUnauthorized)
	require.NotErrorIs(t, &api.Error{StatusCode: 401}, api.ErrSessionExpired)
}

func TestErrorMessage(t *testing.T) {
	withMessage := &api.Error{StatusCode: 400, Message: "Insufficient balance"}
	require.Contains(t, withMessage.Error(), "Insufficient balance")

	bare := &api.Error{StatusCode: 502}
	require.Contains(t, bare.Error(), "502")
}

func TestSessionExpiredErrorWrapsCause(t *testing.T) {
	cause := &api.Error{StatusCode: 401, Message: "Token is invalid or expired"}
	err := &api.SessionExpiredError{Cause: cause}

	require.ErrorIs(t, err, api.ErrSessionExpired)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr, "the refresh failure stays reachable through the chain")
	require.Equal(t, 401, apiErr.StatusCode)

	require.NotEmpty(t, (&api.SessionExpiredError{}).Error())
}
