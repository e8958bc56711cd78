package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smallbiznis/vetledger/pkg/db/pagination"
)

type ListInvoiceRequest struct {
	pagination.Pagination

	ClientID   string
	PetID      string
	Status     PaymentStatus
	IssuedFrom *time.Time
	IssuedTo   *time.Time
}

type Service interface {
	// Save persists an accepted editing session as a new invoice, assigning
	// the next year-scoped invoice number.
	Save(ctx context.Context, draft Draft) (Invoice, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (Invoice, error)
	Update(ctx context.Context, invoiceNo string, version int64, draft Draft) (Invoice, error)
	Delete(ctx context.Context, invoiceNo string, version int64) error
	List(context.Context, ListInvoiceRequest) ([]Invoice, error)
}

// Draft is the outcome of an accepted editing session, ready to persist.
type Draft struct {
	ClientID      string
	PetID         string
	DateIssued    time.Time
	Reason        string
	Veterinarian  string
	Notes         string
	ReceivedBy    string
	TaxRate       float64
	SubtotalCents int64
	TaxCents      int64
	TotalCents    int64
	PaymentStatus PaymentStatus
	PaymentMethod string
	PartialCents  int64
	Lines         []LineItem
}

var (
	ErrInvalidRef           = errors.New("invalid_reference")
	ErrNotFound             = errors.New("not_found")
	ErrConflict             = errors.New("version_conflict")
	ErrNoPaymentStatus      = errors.New("payment_status_not_selected")
	ErrMissingPaymentMethod = errors.New("payment_method_required")
	ErrPartialOutOfRange    = errors.New("partial_amount_out_of_range")
	ErrLineNotFound         = errors.New("line_item_not_found")
)

// ValidationError marks a single offending form field without blocking the
// rest of the session.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}
