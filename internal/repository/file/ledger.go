package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tmeduca/investigacion-portal/internal/logger"
	"github.com/tmeduca/investigacion-portal/internal/model"
)

// RevocationLedger is a file-backed map of invalidated-token
// fingerprints to invalidation timestamps. The ledger file is loaded
// once at construction and rewritten on every successful mutation; a
// single mutex covers lookup, compaction and persistence.
type RevocationLedger struct {
	path   string
	ttl    time.Duration
	logger *logger.Logger

	mu      sync.Mutex
	entries map[string]int64
}

// NewRevocationLedger loads the ledger at path, creating its directory
// if needed. ttl is the token lifetime; entries older than that can
// never match a still-valid token and are pruned on compaction.
func NewRevocationLedger(path string, ttl time.Duration, logger *logger.Logger) (*RevocationLedger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create ledger dir: %w", err)
	}

	entries := map[string]int64{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// first run, empty ledger
	case err != nil:
		return nil, fmt.Errorf("%w: %w", model.ErrStorage, err)
	default:
		if err := json.Unmarshal(data, &entries); err != nil {
			logger.Error("corrupt revocation ledger, starting empty", "path", path, "error", err.Error())
			entries = map[string]int64{}
		}
	}

	return &RevocationLedger{path: path, ttl: ttl, logger: logger, entries: entries}, nil
}

// Fingerprint returns the ledger key for a token: a one-way hash of the
// full token text, so raw tokens are never stored.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// IsRevoked reports whether the token's fingerprint is in the ledger.
func (l *RevocationLedger) IsRevoked(token string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[Fingerprint(token)]
	return ok
}

// Revoke records the token's fingerprint with the current timestamp,
// compacts, and persists the full map. If persistence fails the
// in-memory state is rolled back and the revoke is not acknowledged.
// Revoking an already-revoked token is a no-op.
func (l *RevocationLedger) Revoke(ctx context.Context, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fp := Fingerprint(token)
	if _, ok := l.entries[fp]; ok {
		return nil
	}

	previous := make(map[string]int64, len(l.entries))
	for k, v := range l.entries {
		previous[k] = v
	}

	l.entries[fp] = time.Now().Unix()
	l.compactLocked()

	if err := l.persistLocked(); err != nil {
		l.entries = previous
		return fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	return nil
}

// Compact drops every entry older than the token lifetime and persists
// the result. It returns the number of entries removed.
func (l *RevocationLedger) Compact(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	previous := make(map[string]int64, len(l.entries))
	for k, v := range l.entries {
		previous[k] = v
	}

	dropped := l.compactLocked()
	if dropped == 0 {
		return 0, nil
	}

	if err := l.persistLocked(); err != nil {
		l.entries = previous
		return 0, fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	return dropped, nil
}

func (l *RevocationLedger) compactLocked() int {
	cutoff := time.Now().Add(-l.ttl).Unix()
	dropped := 0
	for fp, ts := range l.entries {
		if ts < cutoff {
			delete(l.entries, fp)
			dropped++
		}
	}
	return dropped
}

func (l *RevocationLedger) persistLocked() error {
	return writeJSON(l.path, l.entries)
}
