package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Paulndambo/nismart-go/api"
)

// AdminTransactionsQuery filters and paginates GET /admin/transactions/.
// Zero values are omitted from the query string.
type AdminTransactionsQuery struct {
	Type     string // DEPOSIT, WITHDRAWAL, or TRANSFER
	Status   string // PENDING, COMPLETED, or FAILED
	UserID   int
	Page     int
	PageSize int
}

func (q AdminTransactionsQuery) values() url.Values {
	values := url.Values{}
	if q.Type != "" {
		values.Set("type", q.Type)
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if q.UserID > 0 {
		values.Set("user_id", strconv.Itoa(q.UserID))
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return values
}

// AdminStats fetches the aggregate counters for the staff dashboard.
func (c *Client) AdminStats(ctx context.Context) (*api.AdminStats, error) {
	var stats api.AdminStats
	if err := c.getJSON(ctx, "/admin/stats/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminTransactions lists transactions across all users, filtered and
// paginated. The result is always a well-formed page: a bare-array response
// becomes a single page, and a malformed body becomes an empty page
// reporting the requested (or default) page size.
func (c *Client) AdminTransactions(ctx context.Context, query AdminTransactionsQuery) (api.Page[api.Transaction], error) {
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = api.DefaultPageSize
	}

	data, err := c.call(ctx, http.MethodGet, "/admin/transactions/", query.values(), nil)
	if err != nil {
		return api.Page[api.Transaction]{Results: []api.Transaction{}, Page: 1, PageSize: pageSize}, err
	}
	return api.UnmarshalPage[api.Transaction](data, pageSize), nil
}
