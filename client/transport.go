package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sort"

	"github.com/pkg/errors"

	"github.com/Paulndambo/nismart-go/api"
)

// callState is the per-call retry state machine. A call starts in
// callNormal; the one permitted refresh-and-resubmit moves it to
// callRetried, from which every failure is terminal.
type callState int

const (
	callNormal callState = iota
	callRetried
)

// call performs one logical API call: marshal, send with the current bearer
// token, and on a first 401 refresh the access token and resubmit exactly
// once. It returns the response body on any 2xx status.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "Client.call Marshal")
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "Client.call rate limit")
		}
	}

	state := callNormal
	for {
		respBody, status, err := c.send(ctx, method, path, query, payload)
		if err != nil {
			return nil, err
		}
		if status < 400 {
			return respBody, nil
		}

		apiErr := decodeError(status, respBody)
		if status != http.StatusUnauthorized || state != callNormal {
			return nil, apiErr
		}
		state = callRetried

		refreshToken, ok := c.store.RefreshToken()
		if !ok {
			c.logger.Warn().Str("path", path).Msg("401 with no refresh token, ending session")
			if clearErr := c.store.Clear(); clearErr != nil {
				c.logger.Err(clearErr).Msg("failed to clear session")
			}
			return nil, apiErr
		}

		if refreshErr := c.refreshAccessToken(ctx, refreshToken); refreshErr != nil {
			c.logger.Warn().Err(refreshErr).Str("path", path).Msg("token refresh failed, ending session")
			if clearErr := c.store.Clear(); clearErr != nil {
				c.logger.Err(clearErr).Msg("failed to clear session")
			}
			if c.onSessionExpired != nil {
				c.onSessionExpired()
			}
			return nil, refreshErr
		}
		// Loop resubmits the original request once with the new token.
	}
}

// refreshAccessToken exchanges the refresh token for a new access token and
// stores it. It sends directly, outside the retry state machine. Concurrent
// calls that each hit an expired token each refresh on their own; this
// assumes the server tolerates redundant refresh calls while the refresh
// token stays valid, issuing a fresh access token each time.
func (c *Client) refreshAccessToken(ctx context.Context, refreshToken string) error {
	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return errors.Wrap(err, "Client.refreshAccessToken Marshal")
	}

	respBody, status, err := c.send(ctx, http.MethodPost, "/auth/token/refresh/", nil, payload)
	if err != nil {
		return &api.SessionExpiredError{Cause: err}
	}
	if status >= 400 {
		return &api.SessionExpiredError{Cause: decodeError(status, respBody)}
	}

	var refreshed struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(respBody, &refreshed); err != nil || refreshed.Access == "" {
		return &api.SessionExpiredError{Cause: errors.New("refresh response missing access token")}
	}

	if err := c.store.SetTokens(refreshed.Access, refreshToken); err != nil {
		return &api.SessionExpiredError{Cause: errors.Wrap(err, "Client.refreshAccessToken SetTokens")}
	}
	c.logger.Debug().Msg("access token refreshed")
	return nil
}

// send dispatches a single HTTP request, attaching the session's access
// token as a bearer credential when one is present. Requests without a token
// go out unauthenticated and the server decides whether that is acceptable.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, int, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, 0, errors.Wrap(err, "Client.send NewRequest")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.store.AccessToken(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "Client.send Do")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, errors.Wrap(err, "Client.send ReadAll")
	}
	return data, resp.StatusCode, nil
}

// getJSON performs a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	data, err := c.call(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "Client.getJSON decode %s", path)
	}
	return nil
}

// postJSON performs a POST and decodes the response into out (skipped when
// out is nil).
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := c.call(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "Client.postJSON decode %s", path)
	}
	return nil
}

// decodeError turns a failure body into an api.Error, surfacing the
// server-provided message when one exists. The server answers with
// {"error": "..."} for business failures, {"detail": "..."} for auth
// failures, and a field-to-messages map for validation failures.
func decodeError(status int, body []byte) *api.Error {
	return &api.Error{StatusCode: status, Message: extractMessage(body)}
}

func extractMessage(body []byte) string {
	var generic map[string]any
	if err := json.Unmarshal(body, &generic); err != nil {
		return ""
	}
	if s, ok := generic["error"].(string); ok {
		return s
	}
	if s, ok := generic["detail"].(string); ok {
		return s
	}

	// Field-error maps surface the first field in sorted order so the same
	// failure always produces the same message.
	fields := make([]string, 0, len(generic))
	for field := range generic {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		switch value := generic[field].(type) {
		case string:
			return field + ": " + value
		case []any:
			if len(value) > 0 {
				if s, ok := value[0].(string); ok {
					return field + ": " + s
				}
			}
		}
	}
	return ""
}
