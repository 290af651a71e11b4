package model

import "context"

// Notifier sends account-request lifecycle notifications. Delivery is
// best effort: callers log failures and carry on, a lost mail never
// fails the request that triggered it.
type Notifier interface {
	RequestSubmitted(ctx context.Context, request AccountRequest) error
	RequestApproved(ctx context.Context, request AccountRequest, initialPassword string) error
	RequestRejected(ctx context.Context, request AccountRequest) error
}
