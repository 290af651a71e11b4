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
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tmeduca/investigacion-portal/internal/logger"
	"github.com/tmeduca/investigacion-portal/internal/model"
)

// UserStore persists one JSON document per user under a directory, the
// email being the file name. Writes go through a temp file and rename so
// a crash never leaves a half-written record, and a per-email lock table
// serializes concurrent writers on the same key.
type UserStore struct {
	dir             string
	defaultPassword string
	logger          *logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewUserStore creates a user store rooted at dir, creating it if
// needed. Users created without an explicit password get
// defaultPassword.
func NewUserStore(dir, defaultPassword string, logger *logger.Logger) (*UserStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create users dir: %w", err)
	}
	return &UserStore{
		dir:             dir,
		defaultPassword: defaultPassword,
		logger:          logger,
		locks:           map[string]*sync.Mutex{},
	}, nil
}

func (s *UserStore) lockFor(email string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[email]
	if !ok {
		l = &sync.Mutex{}
		s.locks[email] = l
	}
	return l
}

func (s *UserStore) path(email string) (string, error) {
	if email == "" || strings.ContainsAny(email, `/\`) {
		return "", model.ErrNotFound
	}
	return filepath.Join(s.dir, email+".json"), nil
}

// Create stores a new user record. The raw password may be empty, in
// which case the configured default password is used.
func (s *UserStore) Create(ctx context.Context, email, rawPassword string, role model.Role) (model.User, error) {
	email = model.NormalizeEmail(email)
	path, err := s.path(email)
	if err != nil {
		return model.User{}, err
	}

	l := s.lockFor(email)
	l.Lock()
	defer l.Unlock()

	if _, err := os.Stat(path); err == nil {
		return model.User{}, model.ErrAlreadyExists
	}

	if rawPassword == "" {
		rawPassword = s.defaultPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := model.User{
		Email:            email,
		PasswordHash:     string(hash),
		Role:             role,
		FirstLogin:       true,
		ProfileCompleted: false,
		CreatedAt:        now,
		UpdatedAt:        now,
		LastLogin:        nil,
	}

	if err := writeJSON(path, user); err != nil {
		return model.User{}, fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	s.logger.Info("user created", "email", email, "role", role)
	return user, nil
}

// Get loads a user record by email. A record that exists but fails to
// parse is reported as not found so callers never crash on corrupt
// files; the corruption is logged for the operator.
func (s *UserStore) Get(ctx context.Context, email string) (model.User, error) {
	email = model.NormalizeEmail(email)
	path, err := s.path(email)
	if err != nil {
		return model.User{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.User{}, model.ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.logger.Error("corrupt user record", "email", email, "error", err.Error())
		return model.User{}, model.ErrNotFound
	}

	return user, nil
}

// Update applies a whitelisted partial update and stamps updated_at.
func (s *UserStore) Update(ctx context.Context, email string, update model.UserUpdate) (model.User, error) {
	email = model.NormalizeEmail(email)
	path, err := s.path(email)
	if err != nil {
		return model.User{}, err
	}

	l := s.lockFor(email)
	l.Lock()
	defer l.Unlock()

	user, err := s.Get(ctx, email)
	if err != nil {
		return model.User{}, err
	}

	if update.PasswordHash != nil {
		user.PasswordHash = *update.PasswordHash
	}
	if update.FirstLogin != nil {
		user.FirstLogin = *update.FirstLogin
	}
	if update.LastLogin != nil {
		user.LastLogin = update.LastLogin
	}
	if update.ProfileCompleted != nil {
		user.ProfileCompleted = *update.ProfileCompleted
	}
	user.UpdatedAt = time.Now()

	if err := writeJSON(path, user); err != nil {
		return model.User{}, fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	return user, nil
}

// ValidatePassword compares a raw password against the stored hash. It
// returns false, never an error, for an absent user so the caller's
// failure path cannot leak record existence.
func (s *UserStore) ValidatePassword(ctx context.Context, email, rawPassword string) bool {
	user, err := s.Get(ctx, email)
	if err != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(rawPassword)) == nil
}

// ChangePassword stores a new password hash and clears the first-login
// flag. Verifying the current password is the auth service's job.
func (s *UserStore) ChangePassword(ctx context.Context, email, newRawPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newRawPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	hashStr := string(hash)
	firstLogin := false
	_, err = s.Update(ctx, email, model.UserUpdate{
		PasswordHash: &hashStr,
		FirstLogin:   &firstLogin,
	})
	return err
}

// Delete removes the user record.
func (s *UserStore) Delete(ctx context.Context, email string) error {
	email = model.NormalizeEmail(email)
	path, err := s.path(email)
	if err != nil {
		return err
	}

	l := s.lockFor(email)
	l.Lock()
	defer l.Unlock()

	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	s.logger.Info("user deleted", "email", email)
	return nil
}

// List returns every parseable user record with the password hash
// stripped, sorted by email. Corrupt files are skipped and logged.
func (s *UserStore) List(ctx context.Context) ([]model.User, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	users := make([]model.User, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrStorage, err)
		}
		var user model.User
		if err := json.Unmarshal(data, &user); err != nil {
			s.logger.Error("corrupt user record", "file", entry.Name(), "error", err.Error())
			continue
		}
		// Other JSON documents that happen to live in the directory,
		// like the revocation ledger, decode into a record without an
		// identifying key and are not users.
		if user.Email == "" {
			s.logger.Debug("skipping non-user file", "file", entry.Name())
			continue
		}
		users = append(users, user.Sanitized())
	}

	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

// writeJSON writes v to path atomically: marshal to a temp file in the
// same directory, then rename over the target.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
