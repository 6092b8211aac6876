package directory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"userdash/internal/httpclient"
	"userdash/internal/logging"
)

// Client talks to the remote user-directory API.
type Client struct {
	http   *httpclient.Client
	logger logging.Logger
}

func New(baseURL string, timeout time.Duration, logger logging.Logger) (*Client, error) {
	httpCli, err := httpclient.New(baseURL, timeout, logger.With("component", "directory_http"))
	if err != nil {
		return nil, err
	}

	return &Client{
		http:   httpCli,
		logger: logger,
	}, nil
}

// List fetches one page of users. Pages are 1-based.
func (c *Client) List(ctx context.Context, page int) (Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))

	var res Page
	if err := c.http.GetJSON(ctx, "users", query, &res); err != nil {
		return Page{}, fmt.Errorf("list users page %d: %w", page, err)
	}
	return res, nil
}

// Get fetches a single user by id. A 404 maps to ErrNotFound.
func (c *Client) Get(ctx context.Context, id int) (User, error) {
	var res struct {
		Data User `json:"data"`
	}
	if err := c.http.GetJSON(ctx, "users/"+strconv.Itoa(id), nil, &res); err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return res.Data, nil
}

// Create posts a draft and returns the record the directory assigned an id to.
func (c *Client) Create(ctx context.Context, draft Draft) (User, error) {
	var res User
	if err := c.http.PostJSON(ctx, "users", draft, &res); err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return res, nil
}

// Update puts a draft for an existing id and returns the echoed record.
// The directory echo may omit the id, so it is filled in from the argument.
func (c *Client) Update(ctx context.Context, id int, draft Draft) (User, error) {
	var res User
	if err := c.http.PutJSON(ctx, "users/"+strconv.Itoa(id), draft, &res); err != nil {
		return User{}, fmt.Errorf("update user %d: %w", id, err)
	}
	if res.ID == 0 {
		res.ID = id
	}
	return res, nil
}

// Delete removes a user. Success is status-code only.
func (c *Client) Delete(ctx context.Context, id int) error {
	if err := c.http.Delete(ctx, "users/"+strconv.Itoa(id)); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}
