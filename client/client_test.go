package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Paulndambo/nismart-go/api"
	"github.com/Paulndambo/nismart-go/client"
	"github.com/Paulndambo/nismart-go/session/memstore"
)

const (
	staleAccessToken = "stale-access"
	freshAccessToken = "fresh-access"
	refreshToken     = "refresh-1"
)

// apiServer is a scripted Nismart API: any access token other than the
// current one earns a 401, and the refresh endpoint rotates the current
// token while counting how often it was called.
type apiServer struct {
	*httptest.Server

	// refreshIssues is the access token the refresh endpoint hands out;
	// only freshAccessToken satisfies the bearer check on other routes.
	refreshIssues string
	refreshCalls  atomic.Int32
	refreshFails  bool
}

func newAPIServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *apiServer {
	t.Helper()

	s := &apiServer{refreshIssues: freshAccessToken}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		s.refreshCalls.Add(1)
		var body struct {
			Refresh string `json:"refresh"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if s.refreshFails || body.Refresh != refreshToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Token is invalid or expired"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access": s.refreshIssues})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+freshAccessToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
			return
		}
		handler(w, r)
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func newTestClient(t *testing.T, server *apiServer, options ...client.Option) (*client.Client, *memstore.Store) {
	t.Helper()

	store := memstore.New()
	c, err := client.New(server.URL, store, options...)
	require.NoError(t, err)
	return c, store
}

func TestRefreshOn401ThenResubmitOnce(t *testing.T) {
	server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/balance/7/", r.URL.Path)
		_, _ = w.Write([]byte(`{"account_id":3,"balance":"150.00","currency":"USD","user_id":7}`))
	})
	c, store := newTestClient(t, server)
	require.NoError(t, store.SetTokens(staleAccessToken, refreshToken))

	balance, err := c.Balance(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "150.00", balance.Balance)
	require.Equal(t, "USD", balance.Currency)
	require.Equal(t, int32(1), server.refreshCalls.Load(), "refresh endpoint must be called exactly once")

	access, ok := store.AccessToken()
	require.True(t, ok)
	require.Equal(t, freshAccessToken, access, "new access token must be stored")
	refresh, ok := store.RefreshToken()
	require.True(t, ok)
	require.Equal(t, refreshToken, refresh, "refresh token survives a refresh")
}

func TestSecond401AfterRefreshIsTerminal(t *testing.T) {
	server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be reached")
	})
	// The refresh endpoint hands out a token the server then refuses.
	server.refreshIssues = "still-stale"
	c, store := newTestClient(t, server)
	require.NoError(t, store.SetTokens(staleAccessToken, refreshToken))

	_, err := c.Balance(context.Background(), 7)
	require.Error(t, err)
	require.ErrorIs(t, err, api.ErrUnauthorized)
	require.Equal(t, int32(1), server.refreshCalls.Load(), "a resubmitted request must not refresh again")
}

func TestNoRefreshTokenClearsSessionWithoutRefreshCall(t *testing.T) {
	server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be reached")
	})
	c, store := newTestClient(t, server)
	require.NoError(t, store.SetTokens(staleAccessToken, ""))

	_, err := c.Balance(context.Background(), 7)
	require.Error(t, err)
	require.ErrorIs(t, err, api.ErrUnauthorized, "the original 401 propagates")
	require.Zero(t, server.refreshCalls.Load(), "refresh endpoint must not be called")

	_, ok := store.AccessToken()
	require.False(t, ok, "session must be cleared")
}

func TestFailedRefreshEndsSessionAndFiresHook(t *testing.T) {
	server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be reached")
	})
	server.refreshFails = true

	hookFired := false
	c, store := newTestClient(t, server, client.WithSessionExpiredHook(func() {
		hookFired = true
	}))
	require.NoError(t, store.SetTokens(staleAccessToken, refreshToken))

	_, err := c.Balance(context.Background(), 7)
	require.Error(t, err)
	require.ErrorIs(t, err, api.ErrSessionExpired, "the refresh failure propagates, not the original 401")
	require.True(t, hookFired)
	require.Equal(t, int32(1), server.refreshCalls.Load())

	_, ok := store.AccessToken()
	require.False(t, ok)
	_, ok = store.RefreshToken()
	require.False(t, ok)
}

func TestRetriedRequestReplaysBodyAndKey(t *testing.T) {
	var bodies [][]byte
	server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, body)
		_, _ = w.Write([]byte(`{"id":11,"transaction_type":"DEPOSIT","amount":"20.00","status":"COMPLETED"}`))
	})
	c, store := newTestClient(t, server)
	require.NoError(t, store.SetTokens(staleAccessToken, refreshToken))

	key := client.NewIdempotencyKey()
	tx, err := c.Deposit(context.Background(), client.DepositRequest{
		AccountID:      3,
		Amount:         "20.00",
		IdempotencyKey: key,
	})
	require.NoError(t, err)
	require.Equal(t, "COMPLETED", tx.Status)

	// One 401 happened before the handler was reached, so the handler saw
	// exactly the resubmission, carrying the same body and the same key.
	require.Len(t, bodies, 1)
	require.Contains(t, string(bodies[0]), key)
}

func TestLoginStoresSessionAndLogoutClearsIt(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		require.Equal(t, "alice", body["username"])
		require.Equal(t, "pw", body["password"])
		_, _ = w.Write([]byte(`{
			"user": {"id": 1, "username": "alice", "email": "alice@example.com", "first_name": "Alice", "last_name": "Smith"},
			"tokens": {"access": "A1", "refresh": "R1"}
		}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	store := memstore.New()
	c, err := client.New(server.URL, store)
	require.NoError(t, err)

	creds, err := c.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	require.Equal(t, 1, creds.User.ID)

	access, ok := store.AccessToken()
	require.True(t, ok)
	require.Equal(t, "A1", access)
	profile, ok := store.Profile()
	require.True(t, ok)
	require.Equal(t, "alice", profile.Username)

	require.NoError(t, c.Logout())
	_, ok = store.AccessToken()
	require.False(t, ok)
	_, ok = store.Profile()
	require.False(t, ok)
}

func TestAdminTransactionsEnvelopePassesThrough(t *testing.T) {
	server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/transactions/", r.URL.Path)
		require.Equal(t, "DEPOSIT", r.URL.Query().Get("type"))
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "10", r.URL.Query().Get("page_size"))

		results := make([]map[string]any, 9)
		for i := range results {
			results[i] = map[string]any{"id": i + 1, "transaction_type": "DEPOSIT", "amount": "5.00", "status": "COMPLETED"}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": results, "count": 25, "page": 2, "page_size": 10,
		})
	})
	c, store := newTestClient(t, server)
	require.NoError(t, store.SetTokens(freshAccessToken, refreshToken))

	page, err := c.AdminTransactions(context.Background(), client.AdminTransactionsQuery{
		Type: "DEPOSIT", Page: 2, PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, page.Results, 9)
	require.Equal(t, 25, page.Count)
	require.Equal(t, 2, page.Page)
	require.Equal(t, 10, page.PageSize)
}

func TestTransactionHistoryNullBody(t *testing.T) {
	server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})
	c, store := newTestClient(t, server)
	require.NoError(t, store.SetTokens(freshAccessToken, refreshToken))

	history, err := c.TransactionHistory(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, history)
	require.Empty(t, history)
}

func TestListUsersHandlesBothShapes(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"id":1,"username":"alice"},{"id":2,"username":"bob"}]`))
		})
		c, store := newTestClient(t, server)
		require.NoError(t, store.SetTokens(freshAccessToken, refreshToken))

		users, err := c.ListUsers(context.Background())
		require.NoError(t, err)
		require.Len(t, users, 2)
	})

	t.Run("paginated envelope", func(t *testing.T) {
		server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"count":2,"next":null,"previous":null,"results":[{"id":1,"username":"alice"},{"id":2,"username":"bob"}]}`))
		})
		c, store := newTestClient(t, server)
		require.NoError(t, store.SetTokens(freshAccessToken, refreshToken))

		users, err := c.ListUsers(context.Background())
		require.NoError(t, err)
		require.Len(t, users, 2)
	})
}

func TestValidationErrorSurfacesServerMessage(t *testing.T) {
	server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Insufficient balance"}`))
	})
	c, store := newTestClient(t, server)
	require.NoError(t, store.SetTokens(freshAccessToken, refreshToken))

	_, err := c.Withdraw(context.Background(), client.WithdrawRequest{
		AccountID:      3,
		Amount:         "1000000.00",
		IdempotencyKey: client.NewIdempotencyKey(),
	})
	require.Error(t, err)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, "Insufficient balance", apiErr.Message)
}

func TestFieldValidationErrorsSurfaceDeterministically(t *testing.T) {
	server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"amount":["Ensure this value is greater than or equal to 0.01."],"account_id":["This field is required."]}`))
	})
	c, store := newTestClient(t, server)
	require.NoError(t, store.SetTokens(freshAccessToken, refreshToken))

	// Multi-field validation bodies must always surface the same field.
	for i := 0; i < 5; i++ {
		_, err := c.Deposit(context.Background(), client.DepositRequest{
			Amount:         "-1",
			IdempotencyKey: client.NewIdempotencyKey(),
		})
		var apiErr *api.Error
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "account_id: This field is required.", apiErr.Message)
	}
}

func TestMutatingCallsRequireIdempotencyKey(t *testing.T) {
	server := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	})
	c, store := newTestClient(t, server)
	require.NoError(t, store.SetTokens(freshAccessToken, refreshToken))

	_, err := c.Deposit(context.Background(), client.DepositRequest{AccountID: 3, Amount: "5.00"})
	require.Error(t, err)
	_, err = c.Withdraw(context.Background(), client.WithdrawRequest{AccountID: 3, Amount: "5.00"})
	require.Error(t, err)
	_, err = c.Transfer(context.Background(), client.TransferRequest{SourceAccountID: 3, DestinationAccountID: 4, Amount: "5.00"})
	require.Error(t, err)
}

func TestNewIdempotencyKeyMintsDistinctKeys(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key := client.NewIdempotencyKey()
		require.False(t, seen[key], "keys must be unique per logical attempt")
		seen[key] = true
	}
}

func TestRequestWithoutTokenGoesOutUnauthenticated(t *testing.T) {
	var sawAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/list/", func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	store := memstore.New()
	c, err := client.New(server.URL, store)
	require.NoError(t, err)

	_, err = c.ListUsers(context.Background())
	require.NoError(t, err)
	require.Empty(t, sawAuth, "no Authorization header without a token")
}
