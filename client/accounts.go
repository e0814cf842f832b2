package client

import (
	"context"
	"fmt"

	"github.com/Paulndambo/nismart-go/api"
)

// Balance fetches the account balance for a user. Non-staff users may only
// fetch their own; the server enforces that with a 403.
func (c *Client) Balance(ctx context.Context, userID int) (*api.Balance, error) {
	var balance api.Balance
	path := fmt.Sprintf("/balance/%d/", userID)
	if err := c.getJSON(ctx, path, nil, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}
