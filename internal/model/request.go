package model

import (
	"context"
	"time"
)

// RequestStatus is the lifecycle state of an account request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// RequestStore defines persistence operations for account requests.
type RequestStore interface {
	Save(ctx context.Context, request AccountRequest) error
	Get(ctx context.Context, id string) (AccountRequest, error)
	List(ctx context.Context) ([]AccountRequest, error)
}

// AccountRequest is a public intake-form submission awaiting an
// administrative decision.
type AccountRequest struct {
	RequestID     string        `json:"requestId"`
	FirstName     string        `json:"firstName"`
	LastName      string        `json:"lastName"`
	FullName      string        `json:"fullName"`
	RUT           string        `json:"rut"`
	Email         string        `json:"email"`
	Career        string        `json:"career"`
	Role          Role          `json:"role"`
	Phone         string        `json:"phone"`
	Comments      string        `json:"comments"`
	RequestDate   time.Time     `json:"requestDate"`
	Status        RequestStatus `json:"status"`
	ProcessedDate *time.Time    `json:"processedDate"`
	ProcessedBy   *string       `json:"processedBy"`
	AdminComments *string       `json:"adminComments"`
}
