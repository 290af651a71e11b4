package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tmeduca/investigacion-portal/internal/logger"
	"github.com/tmeduca/investigacion-portal/internal/model"
)

// institutionalDomain restricts intake to university addresses.
const institutionalDomain = "@uach.cl"

// Requests handles the public account-request intake and its
// administrative processing.
type Requests struct {
	store           model.RequestStore
	users           model.UserStore
	notifier        model.Notifier
	defaultPassword string
	logger          *logger.Logger
}

// NewRequests creates a new Requests service.
func NewRequests(
	store model.RequestStore,
	users model.UserStore,
	notifier model.Notifier,
	defaultPassword string,
	logger *logger.Logger,
) *Requests {
	return &Requests{
		store:           store,
		users:           users,
		notifier:        notifier,
		defaultPassword: defaultPassword,
		logger:          logger,
	}
}

// SubmitInput is the intake form payload.
type SubmitInput struct {
	FirstName string
	LastName  string
	RUT       string
	Email     string
	Career    string
	Role      model.Role
	Phone     string
	Comments  string
}

// Submit validates and stores a new account request and notifies the
// administrator and the applicant. Mail failures are logged, never
// returned.
func (r *Requests) Submit(ctx context.Context, in SubmitInput) (model.AccountRequest, error) {
	required := map[string]string{
		"firstName": in.FirstName,
		"lastName":  in.LastName,
		"rut":       in.RUT,
		"email":     in.Email,
		"career":    in.Career,
		"role":      string(in.Role),
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return model.AccountRequest{}, fmt.Errorf("%w: missing required field %s", model.ErrValidation, field)
		}
	}

	if !validRUT(in.RUT) {
		return model.AccountRequest{}, fmt.Errorf("%w: invalid RUT", model.ErrValidation)
	}

	email := model.NormalizeEmail(in.Email)
	if !validEmail(email) || !strings.HasSuffix(email, institutionalDomain) {
		return model.AccountRequest{}, fmt.Errorf("%w: email must be institutional (%s)", model.ErrValidation, institutionalDomain)
	}

	if !in.Role.Requestable() {
		return model.AccountRequest{}, fmt.Errorf("%w: invalid role %q", model.ErrValidation, in.Role)
	}

	existing, err := r.store.List(ctx)
	if err != nil {
		return model.AccountRequest{}, fmt.Errorf("failed to list requests: %w", err)
	}
	rut := cleanRUT(in.RUT)
	for _, req := range existing {
		if req.Status != model.RequestPending {
			continue
		}
		if req.Email == email || cleanRUT(req.RUT) == rut {
			return model.AccountRequest{}, fmt.Errorf("%w: a pending request already exists for this email or RUT", model.ErrAlreadyExists)
		}
	}

	request := model.AccountRequest{
		RequestID:   newRequestID(),
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		FullName:    strings.TrimSpace(in.FirstName) + " " + strings.TrimSpace(in.LastName),
		RUT:         strings.TrimSpace(in.RUT),
		Email:       email,
		Career:      in.Career,
		Role:        in.Role,
		Phone:       strings.TrimSpace(in.Phone),
		Comments:    strings.TrimSpace(in.Comments),
		RequestDate: time.Now(),
		Status:      model.RequestPending,
	}

	if err := r.store.Save(ctx, request); err != nil {
		return model.AccountRequest{}, fmt.Errorf("failed to save request: %w", err)
	}

	if err := r.notifier.RequestSubmitted(ctx, request); err != nil {
		r.logger.Error("Requests service: notification failed", "id", request.RequestID, "error", err.Error())
	}

	r.logger.Info("Requests service: request submitted", "id", request.RequestID, "email", email)
	return request, nil
}

// List returns every request, newest first.
func (r *Requests) List(ctx context.Context) ([]model.AccountRequest, error) {
	return r.store.List(ctx)
}

// Approve creates the requested user with the default password and
// marks the request approved. Only pending requests can be approved.
func (r *Requests) Approve(ctx context.Context, id, adminEmail, comments string) (model.AccountRequest, error) {
	request, err := r.store.Get(ctx, id)
	if err != nil {
		return model.AccountRequest{}, err
	}
	if request.Status != model.RequestPending {
		return model.AccountRequest{}, fmt.Errorf("%w: request %s already processed", model.ErrValidation, id)
	}

	if _, err := r.users.Create(ctx, request.Email, "", request.Role); err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return model.AccountRequest{}, fmt.Errorf("%w: user %s already exists", model.ErrAlreadyExists, request.Email)
		}
		return model.AccountRequest{}, fmt.Errorf("failed to create user: %w", err)
	}

	r.markProcessed(&request, model.RequestApproved, adminEmail, comments)
	if err := r.store.Save(ctx, request); err != nil {
		return model.AccountRequest{}, fmt.Errorf("failed to save request: %w", err)
	}

	if err := r.notifier.RequestApproved(ctx, request, r.defaultPassword); err != nil {
		r.logger.Error("Requests service: notification failed", "id", id, "error", err.Error())
	}

	r.logger.Info("Requests service: request approved", "id", id, "by", adminEmail)
	return request, nil
}

// Reject marks the request rejected. Only pending requests can be
// rejected.
func (r *Requests) Reject(ctx context.Context, id, adminEmail, comments string) (model.AccountRequest, error) {
	request, err := r.store.Get(ctx, id)
	if err != nil {
		return model.AccountRequest{}, err
	}
	if request.Status != model.RequestPending {
		return model.AccountRequest{}, fmt.Errorf("%w: request %s already processed", model.ErrValidation, id)
	}

	r.markProcessed(&request, model.RequestRejected, adminEmail, comments)
	if err := r.store.Save(ctx, request); err != nil {
		return model.AccountRequest{}, fmt.Errorf("failed to save request: %w", err)
	}

	if err := r.notifier.RequestRejected(ctx, request); err != nil {
		r.logger.Error("Requests service: notification failed", "id", id, "error", err.Error())
	}

	r.logger.Info("Requests service: request rejected", "id", id, "by", adminEmail)
	return request, nil
}

func (r *Requests) markProcessed(request *model.AccountRequest, status model.RequestStatus, adminEmail, comments string) {
	now := time.Now()
	request.Status = status
	request.ProcessedDate = &now
	request.ProcessedBy = &adminEmail
	if comments != "" {
		request.AdminComments = &comments
	}
}

// newRequestID builds an id like REQ_20260830_4F2A1C.
func newRequestID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("REQ_%s_%s", time.Now().Format("20060102"), suffix)
}
