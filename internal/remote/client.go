package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hance08/leaf/internal/model"
)

// ErrorBody is the JSON error envelope written by `leaf serve`.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client talks to a `leaf serve` instance on behalf of a single signed-in
// user.
type Client struct {
	baseURL string
	token   string
	subject string
	http    *http.Client
}

// NewClient returns a Client authenticated as subject with a bearer token.
func NewClient(baseURL, token, subject string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		subject: subject,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) SelectSettings(ctx context.Context, userID string) (*SettingsRow, error) {
	var row SettingsRow
	if err := c.do(ctx, http.MethodGet, userID, "settings", nil, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (c *Client) SelectTransactions(ctx context.Context, userID string) ([]TransactionRow, error) {
	var rows []TransactionRow
	if err := c.do(ctx, http.MethodGet, userID, "transactions", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) UpsertSettings(ctx context.Context, userID string, settings model.Settings, updatedAt int64) error {
	return c.do(ctx, http.MethodPut, userID, "settings", SettingsRow{Settings: settings, UpdatedAt: updatedAt}, nil)
}

func (c *Client) UpsertTransactions(ctx context.Context, userID string, rows []TransactionRow) error {
	if len(rows) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodPut, userID, "transactions", rows, nil)
}

func (c *Client) do(ctx context.Context, method, userID, resource string, in, out any) error {
	if userID != c.subject {
		return fmt.Errorf("%w: signed in as %q, requested %q", ErrForbidden, c.subject, userID)
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", resource, err)
		}
		body = bytes.NewReader(payload)
	}

	endpoint := fmt.Sprintf("%s/v1/users/%s/%s", c.baseURL, url.PathEscape(userID), resource)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode %s: %v", ErrTransport, resource, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var eb ErrorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &eb); err != nil || eb.Message == "" {
		eb.Message = strings.TrimSpace(string(raw))
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusForbidden:
		sentinel = ErrForbidden
	case http.StatusNotFound:
		sentinel = ErrNotFound
	default:
		sentinel = ErrTransport
	}
	if eb.Message == "" {
		return fmt.Errorf("%w: %s", sentinel, resp.Status)
	}
	return fmt.Errorf("%w: %s", sentinel, eb.Message)
}

// IsAuthError reports whether err means the session is no longer valid.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
