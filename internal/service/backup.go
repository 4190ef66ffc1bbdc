package service

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hance08/leaf/internal/model"
	"github.com/hance08/leaf/internal/store"
)

const SnapshotSchema = 1

// Snapshot is the portable JSON backup of a local replica.
type Snapshot struct {
	Settings     *model.Settings      `json:"settings"`
	Transactions []*model.Transaction `json:"transactions"`
	Rates        []*model.RateRecord  `json:"rates"`
	ExportedAt   int64                `json:"exportedAt"`
	Schema       int                  `json:"schema"`
}

type BackupService struct {
	repo store.Repository
	now  func() time.Time
}

func NewBackupService(repo store.Repository) *BackupService {
	return &BackupService{repo: repo, now: time.Now}
}

// Export captures everything in the local store, tombstones included.
func (bs *BackupService) Export() (*Snapshot, error) {
	snap := &Snapshot{ExportedAt: bs.now().UnixMilli(), Schema: SnapshotSchema}

	settings, err := bs.repo.GetSettings()
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	snap.Settings = settings

	if snap.Transactions, err = bs.repo.ListTransactions(); err != nil {
		return nil, err
	}
	if snap.Rates, err = bs.repo.ListRates(); err != nil {
		return nil, err
	}
	if snap.Transactions == nil {
		snap.Transactions = []*model.Transaction{}
	}
	if snap.Rates == nil {
		snap.Rates = []*model.RateRecord{}
	}
	return snap, nil
}

func (bs *BackupService) WriteTo(w io.Writer) (*Snapshot, error) {
	snap, err := bs.Export()
	if err != nil {
		return nil, err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}
	return snap, nil
}

// ReadSnapshot decodes and checks a backup.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("invalid backup file: %w", err)
	}
	if snap.Schema != SnapshotSchema {
		return nil, fmt.Errorf("unsupported backup schema %d (want %d)", snap.Schema, SnapshotSchema)
	}
	return &snap, nil
}

// Import replaces the whole local replica with snap in one transaction. The
// sync watermark is cleared too, so the next sync compares every record.
func (bs *BackupService) Import(snap *Snapshot) error {
	return bs.repo.ExecTx(func(r store.Repository) error {
		if err := r.ClearAll(); err != nil {
			return err
		}
		if snap.Settings != nil {
			if err := r.PutSettings(snap.Settings); err != nil {
				return err
			}
		}
		for _, tx := range snap.Transactions {
			if err := r.PutTransaction(tx); err != nil {
				return err
			}
		}
		for _, rec := range snap.Rates {
			if err := r.PutRates(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
