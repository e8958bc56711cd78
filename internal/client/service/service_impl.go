package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vetledger/internal/client/domain"
	"github.com/smallbiznis/vetledger/pkg/db"
	"github.com/smallbiznis/vetledger/pkg/db/option"
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

	clientrepo repository.Repository[domain.Client]
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("client.service"),
		genID: p.GenID,

		clientrepo: repository.ProvideStore[domain.Client](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Client{}, domain.ErrInvalidName
	}

	seq, err := s.nextControlSeq(ctx)
	if err != nil {
		return domain.Client{}, err
	}

	now := time.Now().UTC()
	client := domain.Client{
		ID:            s.genID.Generate(),
		Name:          name,
		Address:       strings.TrimSpace(req.Address),
		Contact:       strings.TrimSpace(req.Contact),
		Email:         strings.TrimSpace(req.Email),
		ControlNumber: fmt.Sprintf("CL-%04d", seq),
		ControlSeq:    seq,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.clientrepo.Create(ctx, &client); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Client{}, domain.ErrDuplicate
		}
		return domain.Client{}, err
	}

	s.log.Info("client registered",
		zap.String("client_id", client.ID.String()),
		zap.String("control_number", client.ControlNumber),
	)
	return client, nil
}

func (s *Service) List(ctx context.Context, req domain.ListClientRequest) ([]domain.Client, error) {
	filter := &domain.Client{
		Name:          strings.TrimSpace(req.Name),
		ControlNumber: strings.TrimSpace(req.ControlNumber),
	}

	options := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{
			Allow: map[string]bool{"created_at": true},
			Field: "created_at",
			Desc:  true,
		}),
	}
	if req.CreatedFrom != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "created_at",
			Operator: option.GTE,
			Value:    *req.CreatedFrom,
		}))
	}
	if req.CreatedTo != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "created_at",
			Operator: option.LTE,
			Value:    *req.CreatedTo,
		}))
	}

	items, err := s.clientrepo.Find(ctx, filter, options...)
	if err != nil {
		return nil, err
	}

	clients := make([]domain.Client, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		clients = append(clients, *item)
	}
	return clients, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Client, error) {
	clientID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.Client{}, domain.ErrInvalidID
	}

	item, err := s.clientrepo.FindOne(ctx, &domain.Client{ID: clientID})
	if err != nil {
		return domain.Client{}, err
	}
	if item == nil {
		return domain.Client{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GetByControlNumber(ctx context.Context, controlNumber string) (domain.Client, error) {
	controlNumber = strings.TrimSpace(controlNumber)
	if controlNumber == "" {
		return domain.Client{}, domain.ErrInvalidID
	}

	item, err := s.clientrepo.FindOne(ctx, &domain.Client{ControlNumber: controlNumber})
	if err != nil {
		return domain.Client{}, err
	}
	if item == nil {
		return domain.Client{}, domain.ErrNotFound
	}
	return *item, nil
}

// nextControlSeq derives the next operator-visible client number from the
// highest assigned sequence, so deleted or seeded rows never shift the
// numbering.
func (s *Service) nextControlSeq(ctx context.Context) (int64, error) {
	var next int64
	err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(control_seq), 0) + 1 FROM clients`,
	).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}
