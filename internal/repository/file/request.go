package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tmeduca/investigacion-portal/internal/logger"
	"github.com/tmeduca/investigacion-portal/internal/model"
)

// RequestStore persists account requests as one JSON document per
// request, keyed by request id.
type RequestStore struct {
	dir    string
	logger *logger.Logger
}

// NewRequestStore creates a request store rooted at dir, creating it if
// needed.
func NewRequestStore(dir string, logger *logger.Logger) (*RequestStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create requests dir: %w", err)
	}
	return &RequestStore{dir: dir, logger: logger}, nil
}

func (s *RequestStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return "", model.ErrNotFound
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Save writes the request document, overwriting any previous version.
func (s *RequestStore) Save(ctx context.Context, request model.AccountRequest) error {
	path, err := s.path(request.RequestID)
	if err != nil {
		return err
	}
	if err := writeJSON(path, request); err != nil {
		return fmt.Errorf("%w: %w", model.ErrStorage, err)
	}
	return nil
}

// Get loads a request by id. Corrupt documents read as not found.
func (s *RequestStore) Get(ctx context.Context, id string) (model.AccountRequest, error) {
	path, err := s.path(id)
	if err != nil {
		return model.AccountRequest{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.AccountRequest{}, model.ErrNotFound
	}
	if err != nil {
		return model.AccountRequest{}, fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	var request model.AccountRequest
	if err := json.Unmarshal(data, &request); err != nil {
		s.logger.Error("corrupt account request", "id", id, "error", err.Error())
		return model.AccountRequest{}, model.ErrNotFound
	}

	return request, nil
}

// List returns every parseable request, newest first.
func (s *RequestStore) List(ctx context.Context) ([]model.AccountRequest, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	requests := make([]model.AccountRequest, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrStorage, err)
		}
		var request model.AccountRequest
		if err := json.Unmarshal(data, &request); err != nil {
			s.logger.Error("corrupt account request", "file", entry.Name(), "error", err.Error())
			continue
		}
		requests = append(requests, request)
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].RequestDate.After(requests[j].RequestDate)
	})
	return requests, nil
}
