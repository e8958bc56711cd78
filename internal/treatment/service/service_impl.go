package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vetledger/internal/treatment/domain"
	"github.com/smallbiznis/vetledger/internal/treatment/schema"
	"github.com/smallbiznis/vetledger/pkg/db/option"
	"github.com/smallbiznis/vetledger/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Resolver domain.Resolver
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node

	recordrepo repository.Repository[domain.Record]
	resolver   domain.Resolver
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("treatment.service"),
		genID: p.GenID,

		recordrepo: repository.ProvideStore[domain.Record](p.DB),
		resolver:   p.Resolver,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRecordRequest) (domain.Record, error) {
	specs := schema.FieldsFor(req.Kind)
	if len(specs) == 0 {
		return domain.Record{}, domain.ErrUnknownKind
	}

	petID, err := snowflake.ParseString(strings.TrimSpace(req.PetID))
	if err != nil {
		return domain.Record{}, domain.ErrInvalidRef
	}
	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil {
		return domain.Record{}, domain.ErrInvalidRef
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return domain.Record{}, err
	}
	veterinarian := domain.NormalizeVeterinarian(req.Veterinarian)
	if veterinarian == "" {
		return domain.Record{}, &domain.ValidationError{Field: "veterinarian", Reason: "mandatory field is empty"}
	}

	now := time.Now().UTC()
	record := domain.Record{
		ID:           s.genID.Generate(),
		PetID:        petID,
		ClientID:     clientID,
		Kind:         req.Kind,
		Date:         date,
		Veterinarian: veterinarian,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := applyFields(&record, req.Kind, req.Fields); err != nil {
		return domain.Record{}, err
	}

	s.warnOnDuplicateIdentity(ctx, &record, req)

	if err := s.recordrepo.Create(ctx, &record); err != nil {
		return domain.Record{}, err
	}

	s.log.Info("treatment record created",
		zap.String("record_id", record.ID.String()),
		zap.String("kind", string(record.Kind)),
		zap.String("pet_id", petID.String()),
	)
	return record, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Record, error) {
	recordID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.Record{}, domain.ErrInvalidRef
	}

	item, err := s.recordrepo.FindOne(ctx, &domain.Record{ID: recordID})
	if err != nil {
		return domain.Record{}, err
	}
	if item == nil {
		return domain.Record{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRecordRequest) (domain.Record, error) {
	recordID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return domain.Record{}, domain.ErrInvalidRef
	}

	var updated domain.Record
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Record
		res := tx.WithContext(ctx).Where("id = ?", recordID).Limit(1).Find(&existing)
		if res.Error != nil {
			return res.Error
		}
		if existing.ID == 0 {
			return domain.ErrNotFound
		}
		if existing.Version != req.Version {
			return domain.ErrConflict
		}

		updated = existing
		if req.Date != "" {
			date, err := domain.ParseDate(req.Date)
			if err != nil {
				return err
			}
			updated.Date = date
		}
		if req.Veterinarian != "" {
			updated.Veterinarian = domain.NormalizeVeterinarian(req.Veterinarian)
		}
		if err := applyFields(&updated, existing.Kind, req.Fields); err != nil {
			return err
		}
		updated.Version = existing.Version + 1
		updated.UpdatedAt = time.Now().UTC()

		// Version guard in the WHERE clause: a concurrent editor working from
		// a stale copy must get a conflict, never a silent overwrite.
		guarded := tx.WithContext(ctx).
			Model(&domain.Record{}).
			Where("id = ? AND version = ?", recordID, req.Version).
			Select("*").
			Omit("id", "created_at").
			Updates(&updated)
		if guarded.Error != nil {
			return guarded.Error
		}
		if guarded.RowsAffected == 0 {
			return domain.ErrConflict
		}
		return nil
	})
	if err != nil {
		return domain.Record{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string, version int64) error {
	recordID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidRef
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Record
		res := tx.WithContext(ctx).Where("id = ?", recordID).Limit(1).Find(&existing)
		if res.Error != nil {
			return res.Error
		}
		if existing.ID == 0 {
			return domain.ErrNotFound
		}
		if existing.Version != version {
			return domain.ErrConflict
		}

		guarded := tx.WithContext(ctx).
			Where("id = ? AND version = ?", recordID, version).
			Delete(&domain.Record{})
		if guarded.Error != nil {
			return guarded.Error
		}
		if guarded.RowsAffected == 0 {
			return domain.ErrConflict
		}
		return nil
	})
}

// ResolveAndUpdate is the edit flow for callers that lost the surrogate ID
// and only hold the redisplayed field values.
func (s *Service) ResolveAndUpdate(ctx context.Context, kind domain.Kind, displayed domain.DisplayedFields, req domain.UpdateRecordRequest) (domain.Record, error) {
	recordID, err := s.resolver.Resolve(ctx, kind, displayed)
	if err != nil {
		return domain.Record{}, err
	}

	existing, err := s.GetByID(ctx, recordID.String())
	if err != nil {
		return domain.Record{}, err
	}

	req.ID = recordID.String()
	req.Version = existing.Version
	return s.Update(ctx, req)
}

func (s *Service) ResolveAndDelete(ctx context.Context, kind domain.Kind, displayed domain.DisplayedFields) error {
	recordID, err := s.resolver.Resolve(ctx, kind, displayed)
	if err != nil {
		return err
	}

	existing, err := s.GetByID(ctx, recordID.String())
	if err != nil {
		return err
	}
	return s.Delete(ctx, recordID.String(), existing.Version)
}

func (s *Service) History(ctx context.Context, req domain.HistoryRequest) ([]domain.Record, error) {
	filter := &domain.Record{Kind: req.Kind}
	if raw := strings.TrimSpace(req.PetID); raw != "" {
		petID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidRef
		}
		filter.PetID = petID
	}
	if raw := strings.TrimSpace(req.ClientID); raw != "" {
		clientID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidRef
		}
		filter.ClientID = clientID
	}

	options := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{
			Allow: map[string]bool{"date": true},
			Field: "date",
			Desc:  true,
		}),
	}
	if req.DateFrom != "" {
		from, err := domain.ParseDate(req.DateFrom)
		if err != nil {
			return nil, err
		}
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "date",
			Operator: option.GTE,
			Value:    from,
		}))
	}
	if req.DateTo != "" {
		to, err := domain.ParseDate(req.DateTo)
		if err != nil {
			return nil, err
		}
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "date",
			Operator: option.LTE,
			Value:    to,
		}))
	}

	items, err := s.recordrepo.Find(ctx, filter, options...)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		records = append(records, *item)
	}
	return records, nil
}

// applyFields validates and assigns kind-specific fields. Mandatory fields
// must be non-empty, risk status must be a known value, and names outside
// the kind's schema are rejected outright.
func applyFields(record *domain.Record, kind domain.Kind, fields map[string]string) error {
	for name := range fields {
		if !schema.Known(kind, name) {
			return &domain.ValidationError{Field: name, Reason: "field does not belong to kind"}
		}
	}
	for _, spec := range schema.FieldsFor(kind) {
		value, present := fields[spec.Name]
		value = strings.TrimSpace(value)
		if !present {
			if current, _ := record.Field(spec.Name); spec.Required && current == "" {
				return &domain.ValidationError{Field: spec.Name, Reason: "mandatory field is empty"}
			}
			continue
		}
		if spec.Required && value == "" {
			return &domain.ValidationError{Field: spec.Name, Reason: "mandatory field is empty"}
		}
		if spec.Name == "risk_status" && value != "" && !domain.ValidRiskStatus(value) {
			return &domain.ValidationError{Field: spec.Name, Reason: "unknown risk status"}
		}
		record.SetField(spec.Name, value)
	}
	return nil
}

// Discriminant uniqueness is a soft invariant: the store does not enforce
// it, so saving a same-day duplicate is allowed but logged.
func (s *Service) warnOnDuplicateIdentity(ctx context.Context, record *domain.Record, req domain.CreateRecordRequest) {
	displayed := domain.DisplayedFields{
		PetID:    req.PetID,
		ClientID: req.ClientID,
		Date:     req.Date,
		Fields:   map[string]string{},
	}
	for _, disc := range schema.DiscriminantsFor(req.Kind) {
		value, _ := record.Field(disc.Name)
		displayed.Fields[disc.Name] = value
	}

	if _, err := s.resolver.Resolve(ctx, req.Kind, displayed); err == nil {
		s.log.Warn("new record duplicates an existing composite identity key",
			zap.String("kind", string(req.Kind)),
			zap.String("pet_id", req.PetID),
			zap.String("date", req.Date),
		)
	}
}
