// Package syncer reconciles the local replica with the user's remote replica
// and holds the conflicts it cannot decide until the user resolves them.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/hance08/leaf/internal/model"
	"github.com/hance08/leaf/internal/remote"
	"github.com/hance08/leaf/internal/store"
)

// SyncContext is the state one attempt runs against.
type SyncContext struct {
	UserID    string
	Watermark int64

	session uint64
}

// Result summarizes one Synchronize call.
type Result struct {
	Conflicts      *ConflictSet
	Pulled         int
	Pushed         int
	Skipped        int
	PulledSettings bool
	PushedSettings bool
	Watermark      int64
}

func (r *Result) HasConflicts() bool { return !r.Conflicts.Empty() }

type plan struct {
	pullSettings *model.Settings
	pushSettings *model.Settings
	pulls        []model.Transaction
	pushes       []model.Transaction
	skipped      int
	conflicts    *ConflictSet
}

type Engine struct {
	local  store.Repository
	remote remote.Store
	gate   *Gate
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	pending  map[string]*ConflictSet
	sessions map[string]uint64
}

// NewEngine wires an engine. gate is shared with every other operation that
// must not interleave with a sync; nil gives the engine its own.
func NewEngine(local store.Repository, rs remote.Store, gate *Gate, logger *slog.Logger) *Engine {
	if gate == nil {
		gate = &Gate{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		local:    local,
		remote:   rs,
		gate:     gate,
		logger:   logger,
		now:      time.Now,
		pending:  make(map[string]*ConflictSet),
		sessions: make(map[string]uint64),
	}
}

// Pending returns the unresolved conflicts of the last attempt for userID.
func (e *Engine) Pending(userID string) (*ConflictSet, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cs, ok := e.pending[userID]
	return cs, ok
}

// Discard drops the pending conflicts of userID and invalidates any attempt
// still running for that user, so it cannot advance the watermark.
func (e *Engine) Discard(userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.pending, userID)
	e.sessions[userID]++
}

func (e *Engine) session(userID string) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions[userID]
}

// checkOpen fails once ctx is done or the user signed out after sc began.
func (e *Engine) checkOpen(ctx context.Context, sc SyncContext) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionClosed, err)
	}
	if e.session(sc.UserID) != sc.session {
		return ErrSessionClosed
	}
	return nil
}

func (e *Engine) begin(userID string) (SyncContext, error) {
	wm, err := e.local.GetWatermark(userID)
	if err != nil {
		return SyncContext{}, fmt.Errorf("failed to read watermark: %w", err)
	}
	return SyncContext{UserID: userID, Watermark: wm, session: e.session(userID)}, nil
}

// Synchronize runs one attempt for userID: pulls what the remote changed,
// and either pushes what the local replica changed and advances the
// watermark, or stops with the conflicts it found.
func (e *Engine) Synchronize(ctx context.Context, userID string) (*Result, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	release, err := e.gate.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	sc, err := e.begin(userID)
	if err != nil {
		return nil, err
	}

	p, err := e.plan(ctx, sc)
	if err != nil {
		return nil, err
	}

	if err := e.applyPulls(ctx, sc, p.pullSettings, p.pulls); err != nil {
		return nil, err
	}

	res := &Result{
		Pulled:         len(p.pulls),
		Skipped:        p.skipped,
		PulledSettings: p.pullSettings != nil,
		Watermark:      sc.Watermark,
	}

	if !p.conflicts.Empty() {
		e.mu.Lock()
		if e.sessions[userID] == sc.session {
			e.pending[userID] = p.conflicts
		}
		e.mu.Unlock()
		res.Conflicts = p.conflicts
		e.logger.Info("sync stopped on conflicts",
			"user", userID, "conflicts", p.conflicts.Len(), "pulled", res.Pulled, "deferred", p.conflicts.DeferredPushes())
		return res, nil
	}

	if err := e.push(ctx, sc, p.pushSettings, p.pushes); err != nil {
		return nil, err
	}
	res.Pushed = len(p.pushes)
	res.PushedSettings = p.pushSettings != nil

	wm, err := e.advance(ctx, sc)
	if err != nil {
		return nil, err
	}
	res.Watermark = wm

	e.logger.Info("sync complete",
		"user", userID, "pulled", res.Pulled, "pushed", res.Pushed, "skipped", res.Skipped, "watermark", wm)
	return res, nil
}

// plan reads both replicas and classifies every record.
func (e *Engine) plan(ctx context.Context, sc SyncContext) (*plan, error) {
	localSettings, err := e.local.GetSettings()
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to read local settings: %w", err)
	}
	localTxs, err := e.local.ListTransactions()
	if err != nil {
		return nil, fmt.Errorf("failed to read local transactions: %w", err)
	}

	remoteSettings, err := e.remote.SelectSettings(ctx, sc.UserID)
	if err != nil && !errors.Is(err, remote.ErrNotFound) {
		return nil, remoteErr("read remote settings", err)
	}
	remoteRows, err := e.remote.SelectTransactions(ctx, sc.UserID)
	if err != nil {
		return nil, remoteErr("read remote transactions", err)
	}

	p := &plan{conflicts: &ConflictSet{
		UserID:     sc.UserID,
		DetectedAt: e.now().UnixMilli(),
		Watermark:  sc.Watermark,
	}}

	e.planSettings(p, sc, localSettings, remoteSettings)
	e.planTransactions(p, sc, localTxs, remoteRows)

	p.conflicts.sort()
	p.conflicts.deferredSettings = p.pushSettings
	p.conflicts.deferredPushes = p.pushes
	return p, nil
}

func (e *Engine) planSettings(p *plan, sc SyncContext, local *model.Settings, rs *remote.SettingsRow) {
	switch {
	case local == nil && rs == nil:
		return
	case rs == nil:
		s := local.Clone()
		p.pushSettings = &s
		return
	case local == nil:
		s := rs.Settings.Clone()
		s.UpdatedAt = rs.UpdatedAt
		p.pullSettings = &s
		return
	}

	switch classify(local.UpdatedAt, rs.UpdatedAt, sc.Watermark) {
	case ActionConflict:
		remoteCopy := rs.Settings.Clone()
		remoteCopy.UpdatedAt = rs.UpdatedAt
		p.conflicts.Settings = &SettingsConflict{
			Local:           local.Clone(),
			Remote:          remoteCopy,
			RemoteUpdatedAt: rs.UpdatedAt,
		}
	case ActionPull:
		s := rs.Settings.Clone()
		s.UpdatedAt = rs.UpdatedAt
		p.pullSettings = &s
	case ActionPush:
		s := local.Clone()
		p.pushSettings = &s
	}
}

func (e *Engine) planTransactions(p *plan, sc SyncContext, local []*model.Transaction, rows []remote.TransactionRow) {
	localByID := make(map[string]*model.Transaction, len(local))
	for _, tx := range local {
		localByID[tx.ID] = tx
	}

	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		remoteTx := row.Transaction.Clone()
		remoteTx.UpdatedAt = row.UpdatedAt
		seen[remoteTx.ID] = true

		localTx, ok := localByID[remoteTx.ID]
		if !ok {
			p.pulls = append(p.pulls, remoteTx)
			continue
		}

		switch classify(localTx.UpdatedAt, row.UpdatedAt, sc.Watermark) {
		case ActionConflict:
			p.conflicts.Transactions = append(p.conflicts.Transactions, TransactionConflict{
				ID:     remoteTx.ID,
				Local:  localTx.Clone(),
				Remote: remoteTx,
			})
		case ActionPull:
			p.pulls = append(p.pulls, remoteTx)
		case ActionPush:
			p.pushes = append(p.pushes, localTx.Clone())
		default:
			p.skipped++
		}
	}

	for _, tx := range local {
		if !seen[tx.ID] {
			p.pushes = append(p.pushes, tx.Clone())
		}
	}
}

// applyPulls writes remote snapshots into the local store atomically. Pulled
// records keep the remote timestamp.
func (e *Engine) applyPulls(ctx context.Context, sc SyncContext, settings *model.Settings, txs []model.Transaction) error {
	if settings == nil && len(txs) == 0 {
		return nil
	}
	err := e.local.ExecTx(func(r store.Repository) error {
		if settings != nil {
			if err := r.PutSettings(settings); err != nil {
				return err
			}
		}
		for i := range txs {
			if err := e.checkOpen(ctx, sc); err != nil {
				return err
			}
			if err := r.PutTransaction(&txs[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSessionClosed) {
			return err
		}
		return fmt.Errorf("failed to apply pulled records: %w", err)
	}
	return nil
}

func (e *Engine) push(ctx context.Context, sc SyncContext, settings *model.Settings, txs []model.Transaction) error {
	if err := e.checkOpen(ctx, sc); err != nil {
		return err
	}
	if settings != nil {
		if err := e.remote.UpsertSettings(ctx, sc.UserID, *settings, settings.UpdatedAt); err != nil {
			return remoteErr("push settings", err)
		}
	}
	if len(txs) == 0 {
		return nil
	}
	rows := make([]remote.TransactionRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, remote.NewTransactionRow(tx))
	}
	if err := e.remote.UpsertTransactions(ctx, sc.UserID, rows); err != nil {
		return remoteErr("push transactions", err)
	}
	return nil
}

// advance moves the watermark to now unless the session closed meanwhile.
func (e *Engine) advance(ctx context.Context, sc SyncContext) (int64, error) {
	if err := e.checkOpen(ctx, sc); err != nil {
		return 0, err
	}
	ts := e.now().UnixMilli()
	if err := e.local.SetWatermark(sc.UserID, ts); err != nil {
		return 0, fmt.Errorf("failed to advance watermark: %w", err)
	}

	e.mu.Lock()
	delete(e.pending, sc.UserID)
	e.mu.Unlock()
	return ts, nil
}
