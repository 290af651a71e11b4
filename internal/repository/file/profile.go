package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmeduca/investigacion-portal/internal/logger"
	"github.com/tmeduca/investigacion-portal/internal/model"
)

// ProfileStore reads researcher profile documents from a directory.
// Profiles are written by the profile editor outside this system, so
// the store is read-only here.
type ProfileStore struct {
	dir    string
	logger *logger.Logger
}

// NewProfileStore creates a profile store rooted at dir, creating it if
// needed.
func NewProfileStore(dir string, logger *logger.Logger) (*ProfileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create profiles dir: %w", err)
	}
	return &ProfileStore{dir: dir, logger: logger}, nil
}

// List returns every parseable profile document. Undecodable files are
// skipped and logged, never fatal.
func (s *ProfileStore) List(ctx context.Context) ([]model.Profile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	profiles := make([]model.Profile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrStorage, err)
		}
		var profile model.Profile
		if err := json.Unmarshal(data, &profile); err != nil {
			s.logger.Error("corrupt profile document", "file", entry.Name(), "error", err.Error())
			continue
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}
