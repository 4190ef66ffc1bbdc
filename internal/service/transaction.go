package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hance08/leaf/internal/constants"
	"github.com/hance08/leaf/internal/model"
	"github.com/hance08/leaf/internal/store"
	"github.com/hance08/leaf/internal/validation"
	"github.com/shopspring/decimal"
)

var (
	ErrTransactionDeleted = errors.New("transaction has been deleted")
	ErrAmbiguousID        = errors.New("transaction id prefix matches more than one transaction")
)

type TransactionService struct {
	repo     store.Repository
	settings *SettingsService
	now      func() time.Time
}

func NewTransactionService(repo store.Repository, settings *SettingsService) *TransactionService {
	return &TransactionService{repo: repo, settings: settings, now: time.Now}
}

// signed stores expenses and savings as negative amounts and income as
// positive, whatever sign the user typed.
func signed(txType string, amount decimal.Decimal) decimal.Decimal {
	if txType == constants.TypeIncome {
		return amount.Abs()
	}
	return amount.Abs().Neg()
}

func (ts *TransactionService) Add(in TransactionInput) (*model.Transaction, error) {
	s, err := ts.settings.Load()
	if err != nil {
		return nil, err
	}

	nowMs := ts.now().UnixMilli()
	tx := &model.Transaction{
		ID:            uuid.NewString(),
		Type:          in.Type,
		Date:          in.Date,
		AmountBase:    signed(in.Type, in.Amount),
		Currency:      s.BaseCurrency,
		Category:      in.Category,
		Source:        in.Source,
		Description:   in.Description,
		Note:          in.Note,
		IncomeBucket:  in.IncomeBucket,
		FundingSource: in.FundingSource,
		InputCurrency: in.InputCurrency,
		CreatedAt:     nowMs,
		UpdatedAt:     nowMs,
	}
	if tx.Type == constants.TypeIncome {
		tx.Category = ""
		if tx.IncomeBucket == "" {
			tx.IncomeBucket = constants.FundingBudget
		}
	} else if tx.FundingSource == "" {
		tx.FundingSource = constants.FundingBudget
	}
	if tx.InputCurrency == "" {
		tx.InputCurrency = s.BaseCurrency
	}

	if err := validation.ValidateTransaction(tx); err != nil {
		return nil, err
	}
	if err := ts.repo.PutTransaction(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Get returns a live transaction. Tombstones read as not found.
func (ts *TransactionService) Get(id string) (*model.Transaction, error) {
	tx, err := ts.repo.GetTransaction(id)
	if err != nil {
		return nil, err
	}
	if tx.Deleted {
		return nil, fmt.Errorf("transaction %s: %w", id, ErrTransactionDeleted)
	}
	return tx, nil
}

// Find accepts a full id or the unique prefix shown in listings.
func (ts *TransactionService) Find(idOrPrefix string) (*model.Transaction, error) {
	tx, err := ts.Get(idOrPrefix)
	if err == nil || !isNotFound(err) {
		return tx, err
	}

	all, err := ts.List(ListFilter{})
	if err != nil {
		return nil, err
	}
	var match *model.Transaction
	for _, t := range all {
		if !strings.HasPrefix(t.ID, idOrPrefix) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%q: %w", idOrPrefix, ErrAmbiguousID)
		}
		match = t
	}
	if match == nil {
		return nil, fmt.Errorf("transaction %s: %w", idOrPrefix, store.ErrRecordNotFound)
	}
	return match, nil
}

func (ts *TransactionService) Edit(id string, patch TransactionPatch) (*model.Transaction, error) {
	tx, err := ts.Get(id)
	if err != nil {
		return nil, err
	}

	if patch.Date != nil {
		tx.Date = *patch.Date
	}
	if patch.Amount != nil {
		tx.AmountBase = signed(tx.Type, *patch.Amount)
	}
	if patch.Category != nil {
		tx.Category = *patch.Category
	}
	if patch.Source != nil {
		tx.Source = *patch.Source
	}
	if patch.Description != nil {
		tx.Description = *patch.Description
	}
	if patch.ClearNote {
		tx.Note = nil
	} else if patch.Note != nil {
		note := *patch.Note
		tx.Note = &note
	}
	if patch.IncomeBucket != nil {
		tx.IncomeBucket = *patch.IncomeBucket
	}
	if patch.FundingSource != nil {
		tx.FundingSource = *patch.FundingSource
	}

	if err := validation.ValidateTransaction(tx); err != nil {
		return nil, err
	}
	tx.UpdatedAt = nextTimestamp(ts.now, tx.UpdatedAt)
	if err := ts.repo.PutTransaction(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Delete marks the transaction as deleted so the removal replicates.
func (ts *TransactionService) Delete(id string) error {
	tx, err := ts.Get(id)
	if err != nil {
		return err
	}
	tx.Deleted = true
	tx.UpdatedAt = nextTimestamp(ts.now, tx.UpdatedAt)
	return ts.repo.PutTransaction(tx)
}

// List returns matching transactions, newest first.
func (ts *TransactionService) List(f ListFilter) ([]*model.Transaction, error) {
	all, err := ts.repo.ListTransactions()
	if err != nil {
		return nil, err
	}

	var out []*model.Transaction
	for _, tx := range all {
		if tx.Deleted && !f.IncludeDeleted {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.Category != "" && tx.Category != f.Category {
			continue
		}
		if !f.From.IsZero() && tx.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && tx.Date.After(f.To) {
			continue
		}
		out = append(out, tx)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}
