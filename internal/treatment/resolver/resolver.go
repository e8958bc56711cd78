// Package resolver re-locates a stored treatment record from the composite
// natural key (pet, client, date, kind discriminants) when the editing
// surface carries no surrogate identifier.
package resolver

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vetledger/internal/treatment/domain"
	"github.com/smallbiznis/vetledger/internal/treatment/schema"
	"github.com/smallbiznis/vetledger/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ResolverParam struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Resolver struct {
	log        *zap.Logger
	recordrepo repository.Repository[domain.Record]
}

func New(p ResolverParam) domain.Resolver {
	return &Resolver{
		log:        p.Log.Named("treatment.resolver"),
		recordrepo: repository.ProvideStore[domain.Record](p.DB),
	}
}

// Resolve returns the surrogate ID of the single record matching the
// displayed fields. Zero matches yield ErrNotFound; more than one yields
// ErrAmbiguous rather than a silent arbitrary pick, so the caller must fall
// back to surrogate-key disambiguation.
func (r *Resolver) Resolve(ctx context.Context, kind domain.Kind, displayed domain.DisplayedFields) (snowflake.ID, error) {
	filter, err := buildFilter(kind, displayed)
	if err != nil {
		return 0, err
	}

	matches, err := r.recordrepo.Find(ctx, filter)
	if err != nil {
		return 0, err
	}

	switch len(matches) {
	case 0:
		return 0, domain.ErrNotFound
	case 1:
		return matches[0].ID, nil
	default:
		r.log.Warn("composite key matched multiple records",
			zap.String("kind", string(kind)),
			zap.String("pet_id", displayed.PetID),
			zap.String("date", displayed.Date),
			zap.Int("matches", len(matches)),
		)
		return 0, domain.ErrAmbiguous
	}
}

// buildFilter assembles the identity-key query: shared columns plus an
// equality constraint on each discriminant field the registry declares.
func buildFilter(kind domain.Kind, displayed domain.DisplayedFields) (*domain.Record, error) {
	discriminants := schema.DiscriminantsFor(kind)
	if len(discriminants) == 0 {
		return nil, domain.ErrUnknownKind
	}

	petID, err := snowflake.ParseString(strings.TrimSpace(displayed.PetID))
	if err != nil {
		return nil, domain.ErrInvalidRef
	}
	clientID, err := snowflake.ParseString(strings.TrimSpace(displayed.ClientID))
	if err != nil {
		return nil, domain.ErrInvalidRef
	}
	date, err := domain.ParseDate(displayed.Date)
	if err != nil {
		return nil, err
	}

	filter := &domain.Record{
		PetID:    petID,
		ClientID: clientID,
		Kind:     kind,
		Date:     date,
	}
	for _, disc := range discriminants {
		value := strings.TrimSpace(displayed.Fields[disc.Name])
		if value == "" {
			return nil, &domain.ValidationError{Field: disc.Name, Reason: "discriminant field is empty"}
		}
		filter.SetField(disc.Name, value)
	}
	return filter, nil
}
