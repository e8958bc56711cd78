package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/smallbiznis/vetledger/internal/client/domain"
	"github.com/smallbiznis/vetledger/internal/pet/domain"
	"github.com/smallbiznis/vetledger/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node

	petrepo    repository.Repository[domain.Pet]
	clientrepo repository.Repository[clientdomain.Client]
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("pet.service"),
		genID: p.GenID,

		petrepo:    repository.ProvideStore[domain.Pet](p.DB),
		clientrepo: repository.ProvideStore[clientdomain.Client](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePetRequest) (domain.Pet, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Pet{}, domain.ErrInvalidName
	}

	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil {
		return domain.Pet{}, domain.ErrInvalidClient
	}
	owner, err := s.clientrepo.FindOne(ctx, &clientdomain.Client{ID: clientID})
	if err != nil {
		return domain.Pet{}, err
	}
	if owner == nil {
		return domain.Pet{}, domain.ErrInvalidClient
	}

	now := time.Now().UTC()
	pet := domain.Pet{
		ID:        s.genID.Generate(),
		ClientID:  clientID,
		Name:      name,
		Species:   strings.TrimSpace(req.Species),
		Breed:     strings.TrimSpace(req.Breed),
		Sex:       strings.TrimSpace(req.Sex),
		BirthDate: req.BirthDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.petrepo.Create(ctx, &pet); err != nil {
		return domain.Pet{}, err
	}

	s.log.Info("pet registered",
		zap.String("pet_id", pet.ID.String()),
		zap.String("client_id", clientID.String()),
	)
	return pet, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPetRequest) ([]domain.Pet, error) {
	filter := &domain.Pet{
		Name:    strings.TrimSpace(req.Name),
		Species: strings.TrimSpace(req.Species),
	}
	if raw := strings.TrimSpace(req.ClientID); raw != "" {
		clientID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidClient
		}
		filter.ClientID = clientID
	}

	items, err := s.petrepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	pets := make([]domain.Pet, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		pets = append(pets, *item)
	}
	return pets, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Pet, error) {
	petID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.Pet{}, domain.ErrInvalidID
	}

	item, err := s.petrepo.FindOne(ctx, &domain.Pet{ID: petID})
	if err != nil {
		return domain.Pet{}, err
	}
	if item == nil {
		return domain.Pet{}, domain.ErrNotFound
	}
	return *item, nil
}
