package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/compozy/docspub/internal/domain"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

const (
	// JournalSchemaVersion defines the current schema version for run files
	JournalSchemaVersion = "1.0.0"
	// JournalFilePermissions defines the permissions for run files
	JournalFilePermissions = 0600
	// JournalDirPermissions defines the permissions for the journal directory
	JournalDirPermissions = 0700
	// JournalLockTimeout defines the maximum time to wait for a lock
	JournalLockTimeout = 30 * time.Second
	// JournalLockRetryInterval defines the interval between lock retry attempts
	JournalLockRetryInterval = 100 * time.Millisecond
)

// JournalRepository persists publish run records. The journal is
// observability only; nothing reads it back to resume or roll back a run.
type JournalRepository interface {
	Save(ctx context.Context, run *domain.PublishRun) error
	Load(ctx context.Context, sessionID string) (*domain.PublishRun, error)
	LoadLatest(ctx context.Context) (*domain.PublishRun, error)
	Exists(ctx context.Context, sessionID string) (bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// runEnvelope wraps a run record with schema metadata
type runEnvelope struct {
	SchemaVersion string             `json:"schema_version"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Run           *domain.PublishRun `json:"run"`
}

// jsonJournalRepository implements JournalRepository using JSON files
type jsonJournalRepository struct {
	fs  afero.Fs
	dir string
}

// NewJournalRepository creates a new JSON-backed journal under dir.
func NewJournalRepository(fs afero.Fs, dir string) JournalRepository {
	if dir == "" {
		dir = ".docspub-state"
	}
	return &jsonJournalRepository{fs: fs, dir: dir}
}

// Save writes the run record atomically under an exclusive file lock.
func (r *jsonJournalRepository) Save(ctx context.Context, run *domain.PublishRun) error {
	if err := r.fs.MkdirAll(r.dir, JournalDirPermissions); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}
	unlock, err := r.acquire(ctx, run.SessionID, (*flock.Flock).TryLock)
	if err != nil {
		return err
	}
	defer unlock()
	envelope := runEnvelope{
		SchemaVersion: JournalSchemaVersion,
		UpdatedAt:     time.Now(),
		Run:           run,
	}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	filename := r.runFilename(run.SessionID)
	tempFile := filename + ".tmp"
	if err := afero.WriteFile(r.fs, tempFile, data, JournalFilePermissions); err != nil {
		return fmt.Errorf("failed to write temp run file: %w", err)
	}
	if err := r.fs.Rename(tempFile, filename); err != nil {
		if removeErr := r.fs.Remove(tempFile); removeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove temp file: %v\n", removeErr)
		}
		return fmt.Errorf("failed to rename run file: %w", err)
	}
	return r.updateLatest(run.SessionID)
}

// Load retrieves a run record by session ID under a shared lock.
func (r *jsonJournalRepository) Load(ctx context.Context, sessionID string) (*domain.PublishRun, error) {
	unlock, err := r.acquire(ctx, sessionID, (*flock.Flock).TryRLock)
	if err != nil {
		return nil, err
	}
	defer unlock()
	data, err := afero.ReadFile(r.fs, r.runFilename(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("run not found for session %s", sessionID)
		}
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}
	var envelope runEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	if envelope.SchemaVersion != JournalSchemaVersion {
		return nil, fmt.Errorf("incompatible schema version: expected %s, got %s",
			JournalSchemaVersion, envelope.SchemaVersion)
	}
	return envelope.Run, nil
}

// LoadLatest retrieves the most recently saved run.
func (r *jsonJournalRepository) LoadLatest(ctx context.Context) (*domain.PublishRun, error) {
	data, err := afero.ReadFile(r.fs, r.latestFilename())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no runs recorded yet")
		}
		return nil, fmt.Errorf("failed to read latest pointer: %w", err)
	}
	return r.Load(ctx, string(data))
}

// Exists checks whether a run record is present.
func (r *jsonJournalRepository) Exists(_ context.Context, sessionID string) (bool, error) {
	_, err := r.fs.Stat(r.runFilename(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check run file: %w", err)
	}
	return true, nil
}

// Delete removes a run record and its lock file.
func (r *jsonJournalRepository) Delete(ctx context.Context, sessionID string) error {
	unlock, err := r.acquire(ctx, sessionID, (*flock.Flock).TryLock)
	if err != nil {
		return err
	}
	defer unlock()
	if err := r.fs.Remove(r.runFilename(sessionID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete run file: %w", err)
	}
	if err := r.fs.Remove(r.lockFilename(sessionID)); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: failed to remove lock file: %v\n", err)
	}
	return nil
}

// acquire takes the per-session file lock, polling until the context or
// JournalLockTimeout expires. The returned function releases the lock.
func (r *jsonJournalRepository) acquire(
	ctx context.Context,
	sessionID string,
	try func(*flock.Flock) (bool, error),
) (func(), error) {
	lock := flock.New(r.lockFilename(sessionID))
	lockCtx, cancel := context.WithTimeout(ctx, JournalLockTimeout)
	defer cancel()
	ticker := time.NewTicker(JournalLockRetryInterval)
	defer ticker.Stop()
	for {
		locked, err := try(lock)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire journal lock: %w", err)
		}
		if locked {
			return func() {
				if unlockErr := lock.Unlock(); unlockErr != nil {
					fmt.Fprintf(os.Stderr, "warning: failed to unlock journal: %v\n", unlockErr)
				}
			}, nil
		}
		select {
		case <-lockCtx.Done():
			return nil, fmt.Errorf("could not acquire journal lock within timeout: %w", lockCtx.Err())
		case <-ticker.C:
		}
	}
}

func (r *jsonJournalRepository) updateLatest(sessionID string) error {
	latest := r.latestFilename()
	temp := latest + ".tmp"
	if err := afero.WriteFile(r.fs, temp, []byte(sessionID), JournalFilePermissions); err != nil {
		return fmt.Errorf("failed to write temp latest pointer: %w", err)
	}
	if err := r.fs.Rename(temp, latest); err != nil {
		if removeErr := r.fs.Remove(temp); removeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove temp pointer: %v\n", removeErr)
		}
		return fmt.Errorf("failed to update latest pointer: %w", err)
	}
	return nil
}

func (r *jsonJournalRepository) runFilename(sessionID string) string {
	return filepath.Join(r.dir, fmt.Sprintf("run-%s.json", sessionID))
}

func (r *jsonJournalRepository) lockFilename(sessionID string) string {
	return filepath.Join(r.dir, fmt.Sprintf(".run-%s.lock", sessionID))
}

func (r *jsonJournalRepository) latestFilename() string {
	return filepath.Join(r.dir, "latest.txt")
}
