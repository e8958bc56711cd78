package domain

import (
	"context"
	"errors"
	"time"
)

type CreatePetRequest struct {
	ClientID  string
	Name      string
	Species   string
	Breed     string
	Sex       string
	BirthDate *time.Time
}

type ListPetRequest struct {
	ClientID string
	Name     string
	Species  string
}

type Service interface {
	Create(context.Context, CreatePetRequest) (Pet, error)
	List(context.Context, ListPetRequest) ([]Pet, error)
	GetByID(ctx context.Context, id string) (Pet, error)
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidClient = errors.New("invalid_client")
	ErrNotFound      = errors.New("not_found")
)
