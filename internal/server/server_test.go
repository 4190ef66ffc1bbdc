package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hance08/leaf/internal/auth"
	"github.com/hance08/leaf/internal/model"
	"github.com/hance08/leaf/internal/remote"
	"github.com/shopspring/decimal"
)

func newTestServer(t *testing.T) (*httptest.Server, *auth.TokenIssuer, *remote.Memory) {
	t.Helper()
	tokens, err := auth.NewTokenIssuer("test-secret")
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	store := remote.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(New(store, tokens, logger).Handler(io.Discard))
	t.Cleanup(srv.Close)
	return srv, tokens, store
}

func clientFor(t *testing.T, srv *httptest.Server, tokens *auth.TokenIssuer, user string) *remote.Client {
	t.Helper()
	tok, err := tokens.Issue(user, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return remote.NewClient(srv.URL, tok, user, 5*time.Second)
}

func TestClientServerRoundTrip(t *testing.T) {
	srv, tokens, _ := newTestServer(t)
	c := clientFor(t, srv, tokens, "alice")
	ctx := context.Background()

	if _, err := c.SelectSettings(ctx, "alice"); !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("SelectSettings before write: got %v, want ErrNotFound", err)
	}

	settings := model.DefaultSettings("USD", 100)
	if err := c.UpsertSettings(ctx, "alice", *settings, 100); err != nil {
		t.Fatalf("UpsertSettings: %v", err)
	}
	row, err := c.SelectSettings(ctx, "alice")
	if err != nil {
		t.Fatalf("SelectSettings: %v", err)
	}
	if row.UpdatedAt != 100 || row.Settings.BaseCurrency != "USD" {
		t.Errorf("unexpected settings row: %+v", row)
	}

	tx := model.Transaction{ID: "t1", Type: "income", AmountBase: decimal.NewFromInt(100), UpdatedAt: 5000}
	if err := c.UpsertTransactions(ctx, "alice", []remote.TransactionRow{remote.NewTransactionRow(tx)}); err != nil {
		t.Fatalf("UpsertTransactions: %v", err)
	}
	rows, err := c.SelectTransactions(ctx, "alice")
	if err != nil {
		t.Fatalf("SelectTransactions: %v", err)
	}
	if len(rows) != 1 || rows[0].UpdatedAt != 5000 || !rows[0].Transaction.AmountBase.Equal(decimal.NewFromInt(100)) {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestServerRejectsCrossUserWrites(t *testing.T) {
	srv, tokens, store := newTestServer(t)
	tok, _ := tokens.Issue("alice", time.Hour)

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/v1/users/bob/settings", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
	if _, err := store.SelectSettings(context.Background(), "bob"); !errors.Is(err, remote.ErrNotFound) {
		t.Errorf("bob's settings were written: %v", err)
	}
}

func TestServerRejectsMissingOrBadToken(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/users/alice/transactions")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", resp.StatusCode)
	}

	c := remote.NewClient(srv.URL, "garbage", "alice", time.Second)
	if _, err := c.SelectTransactions(context.Background(), "alice"); !errors.Is(err, remote.ErrUnauthorized) {
		t.Errorf("bad token: got %v, want ErrUnauthorized", err)
	}
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	tokens, _ := auth.NewTokenIssuer("x")
	s := New(remote.NewMemory(), tokens, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0", io.Discard) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}
