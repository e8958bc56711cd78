package domain

import (
	"context"
	"errors"
	"time"
)

type CreateClientRequest struct {
	Name    string
	Address string
	Contact string
	Email   string
}

type ListClientRequest struct {
	Name          string
	ControlNumber string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

type Service interface {
	Create(context.Context, CreateClientRequest) (Client, error)
	List(context.Context, ListClientRequest) ([]Client, error)
	GetByID(ctx context.Context, id string) (Client, error)
	GetByControlNumber(ctx context.Context, controlNumber string) (Client, error)
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("not_found")
	ErrDuplicate   = errors.New("duplicate_control_number")
)
