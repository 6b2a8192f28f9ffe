package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"

	"github.com/tagworks/autotag/internal/domain"
)

const (
	// JournalFilePermissions defines the permissions for the journal file
	JournalFilePermissions = 0600
	// JournalDirPermissions defines the permissions for the journal directory
	JournalDirPermissions = 0700
	// LockTimeout defines the maximum time to wait for the journal lock
	LockTimeout = 30 * time.Second
	// LockRetryInterval defines the interval between lock retry attempts
	LockRetryInterval = 100 * time.Millisecond

	journalFileName = "journal.json"
	lockFileName    = "journal.lock"
)

// Journal records tagging runs. The lock it takes is local to the machine;
// it serializes concurrent autotag runs against the same working copy but
// gives no protection against another host racing the remote tag namespace.
type Journal interface {
	Append(ctx context.Context, record *domain.RunRecord) error
	List(ctx context.Context) ([]domain.RunRecord, error)
}

// fileJournal implements Journal as a flock-guarded JSON file.
type fileJournal struct {
	fs  afero.Fs
	dir string
}

// NewFileJournal creates a Journal rooted at dir, conventionally
// <repo>/.git/autotag.
func NewFileJournal(fs afero.Fs, dir string) Journal {
	return &fileJournal{fs: fs, dir: dir}
}

// lock acquires the journal lock and returns its release function.
func (j *fileJournal) lock(ctx context.Context) (func(), error) {
	if err := j.ensureDir(); err != nil {
		return nil, err
	}
	lock := flock.New(filepath.Join(j.dir, lockFileName))
	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, LockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire journal lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire journal lock within %s", LockTimeout)
	}
	return func() {
		_ = lock.Unlock()
	}, nil
}

// Append adds a record to the journal under the journal lock.
func (j *fileJournal) Append(ctx context.Context, record *domain.RunRecord) error {
	unlock, err := j.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	records, err := j.read()
	if err != nil {
		return err
	}
	records = append(records, *record)
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}
	if err := afero.WriteFile(j.fs, j.path(), data, JournalFilePermissions); err != nil {
		return fmt.Errorf("failed to write journal: %w", err)
	}
	return nil
}

// List returns all recorded runs, oldest first.
func (j *fileJournal) List(_ context.Context) ([]domain.RunRecord, error) {
	return j.read()
}

func (j *fileJournal) read() ([]domain.RunRecord, error) {
	exists, err := afero.Exists(j.fs, j.path())
	if err != nil {
		return nil, fmt.Errorf("failed to stat journal: %w", err)
	}
	if !exists {
		return nil, nil
	}
	data, err := afero.ReadFile(j.fs, j.path())
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	var records []domain.RunRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse journal: %w", err)
	}
	return records, nil
}

func (j *fileJournal) ensureDir() error {
	if err := j.fs.MkdirAll(j.dir, JournalDirPermissions); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}
	return nil
}

func (j *fileJournal) path() string {
	return filepath.Join(j.dir, journalFileName)
}
