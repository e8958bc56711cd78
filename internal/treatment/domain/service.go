package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// DisplayedFields is what the edit form carries: identity references plus the
// kind-specific field values as the operator currently sees them.
type DisplayedFields struct {
	PetID    string
	ClientID string
	Date     string // calendar date, 2006-01-02
	Fields   map[string]string
}

type CreateRecordRequest struct {
	Kind         Kind
	PetID        string
	ClientID     string
	Date         string
	Veterinarian string
	Fields       map[string]string
}

type UpdateRecordRequest struct {
	ID           string
	Version      int64
	Veterinarian string
	Date         string
	Fields       map[string]string
}

type HistoryRequest struct {
	PetID    string
	ClientID string
	Kind     Kind
	DateFrom string
	DateTo   string
}

type Service interface {
	Create(context.Context, CreateRecordRequest) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	Update(context.Context, UpdateRecordRequest) (Record, error)
	Delete(ctx context.Context, id string, version int64) error
	ResolveAndUpdate(ctx context.Context, kind Kind, displayed DisplayedFields, req UpdateRecordRequest) (Record, error)
	ResolveAndDelete(ctx context.Context, kind Kind, displayed DisplayedFields) error
	History(context.Context, HistoryRequest) ([]Record, error)
}

// Resolver locates the backing row for a record the operator is editing when
// only the redisplayed field values are available. Read-only.
type Resolver interface {
	Resolve(ctx context.Context, kind Kind, displayed DisplayedFields) (snowflake.ID, error)
}

var (
	ErrUnknownKind = errors.New("unknown_kind")
	ErrInvalidRef  = errors.New("invalid_reference")
	ErrInvalidDate = errors.New("invalid_date")
	ErrNotFound    = errors.New("not_found")
	ErrAmbiguous   = errors.New("ambiguous_identity")
	ErrConflict    = errors.New("version_conflict")
)

// ValidationError marks a single offending form field. The form stays open
// and no state is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}
