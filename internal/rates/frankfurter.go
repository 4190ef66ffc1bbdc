package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hance08/leaf/internal/model"
	"github.com/shopspring/decimal"
)

const frankfurterSource = "frankfurter"

// Frankfurter fetches daily reference rates from a Frankfurter API instance.
type Frankfurter struct {
	baseURL string
	client  *http.Client
}

func NewFrankfurter(baseURL string, timeout time.Duration) *Frankfurter {
	return &Frankfurter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type latestResponse struct {
	Amount float64                    `json:"amount"`
	Base   string                     `json:"base"`
	Date   string                     `json:"date"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

// Latest returns the most recent rates quoted against base.
func (f *Frankfurter) Latest(ctx context.Context, base string) (*model.RateRecord, error) {
	endpoint := fmt.Sprintf("%s/latest?from=%s", f.baseURL, url.QueryEscape(base))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rates request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode rates: %w", err)
	}
	if payload.Base == "" {
		payload.Base = base
	}

	return &model.RateRecord{
		Base:      payload.Base,
		Rates:     payload.Rates,
		FetchedAt: model.NowMillis(),
		Source:    frankfurterSource,
		Date:      payload.Date,
	}, nil
}
