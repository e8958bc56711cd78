package resolver

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/vetledger/internal/treatment/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupResolver(t *testing.T) (domain.Resolver, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Record{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	res := New(ResolverParam{DB: db, Log: zap.NewNop()})
	return res, db, node
}

func seedRecord(t *testing.T, db *gorm.DB, node *snowflake.Node, petID, clientID snowflake.ID, kind domain.Kind, date string, fields map[string]string) snowflake.ID {
	t.Helper()

	day, err := domain.ParseDate(date)
	require.NoError(t, err)

	record := domain.Record{
		ID:           node.Generate(),
		PetID:        petID,
		ClientID:     clientID,
		Kind:         kind,
		Date:         day,
		Veterinarian: "Dr. Reyes",
		Version:      1,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	for name, value := range fields {
		require.True(t, record.SetField(name, value))
	}
	require.NoError(t, db.Create(&record).Error)
	return record.ID
}

func TestResolveExactlyOne(t *testing.T) {
	res, db, node := setupResolver(t)
	ctx := context.Background()

	petID := node.Generate()
	clientID := node.Generate()
	wantID := seedRecord(t, db, node, petID, clientID, domain.KindConsultation, "2025-03-10", map[string]string{
		"reason":    "limping",
		"diagnosis": "sprain",
	})
	// Same pet, same day, different reason: must not match.
	seedRecord(t, db, node, petID, clientID, domain.KindConsultation, "2025-03-10", map[string]string{
		"reason":    "deworming follow-up",
		"diagnosis": "clear",
	})

	got, err := res.Resolve(ctx, domain.KindConsultation, domain.DisplayedFields{
		PetID:    petID.String(),
		ClientID: clientID.String(),
		Date:     "2025-03-10",
		Fields:   map[string]string{"reason": "limping"},
	})
	require.NoError(t, err)
	assert.Equal(t, wantID, got)
}

func TestResolveNotFound(t *testing.T) {
	res, _, node := setupResolver(t)

	_, err := res.Resolve(context.Background(), domain.KindVaccination, domain.DisplayedFields{
		PetID:    node.Generate().String(),
		ClientID: node.Generate().String(),
		Date:     "2025-01-01",
		Fields:   map[string]string{"vaccine": "rabies"},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveAmbiguous(t *testing.T) {
	res, db, node := setupResolver(t)

	petID := node.Generate()
	clientID := node.Generate()
	fields := map[string]string{"dewormer": "pyrantel"}
	seedRecord(t, db, node, petID, clientID, domain.KindDeworming, "2025-02-02", fields)
	seedRecord(t, db, node, petID, clientID, domain.KindDeworming, "2025-02-02", fields)

	_, err := res.Resolve(context.Background(), domain.KindDeworming, domain.DisplayedFields{
		PetID:    petID.String(),
		ClientID: clientID.String(),
		Date:     "2025-02-02",
		Fields:   fields,
	})
	assert.ErrorIs(t, err, domain.ErrAmbiguous)
}

func TestResolveSurgeryCompositeDiscriminant(t *testing.T) {
	res, db, node := setupResolver(t)

	petID := node.Generate()
	clientID := node.Generate()
	wantID := seedRecord(t, db, node, petID, clientID, domain.KindSurgery, "2025-04-04", map[string]string{
		"surgery_type": "neuter",
		"risk_status":  "Low",
	})
	seedRecord(t, db, node, petID, clientID, domain.KindSurgery, "2025-04-04", map[string]string{
		"surgery_type": "neuter",
		"risk_status":  "High",
	})

	got, err := res.Resolve(context.Background(), domain.KindSurgery, domain.DisplayedFields{
		PetID:    petID.String(),
		ClientID: clientID.String(),
		Date:     "2025-04-04",
		Fields:   map[string]string{"surgery_type": "neuter", "risk_status": "Low"},
	})
	require.NoError(t, err)
	assert.Equal(t, wantID, got)
}

func TestResolveIsDeterministic(t *testing.T) {
	res, db, node := setupResolver(t)

	petID := node.Generate()
	clientID := node.Generate()
	wantID := seedRecord(t, db, node, petID, clientID, domain.KindGrooming, "2025-05-05", map[string]string{
		"grooming_service": "full groom",
	})

	displayed := domain.DisplayedFields{
		PetID:    petID.String(),
		ClientID: clientID.String(),
		Date:     "2025-05-05",
		Fields:   map[string]string{"grooming_service": "full groom"},
	}

	first, err := res.Resolve(context.Background(), domain.KindGrooming, displayed)
	require.NoError(t, err)
	second, err := res.Resolve(context.Background(), domain.KindGrooming, displayed)
	require.NoError(t, err)
	assert.Equal(t, wantID, first)
	assert.Equal(t, first, second)
}

func TestResolveRejectsBadInput(t *testing.T) {
	res, _, node := setupResolver(t)
	ctx := context.Background()

	_, err := res.Resolve(ctx, domain.Kind("XRAY"), domain.DisplayedFields{
		PetID:    node.Generate().String(),
		ClientID: node.Generate().String(),
		Date:     "2025-01-01",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownKind)

	_, err = res.Resolve(ctx, domain.KindConsultation, domain.DisplayedFields{
		PetID:    "not-a-ref",
		ClientID: node.Generate().String(),
		Date:     "2025-01-01",
		Fields:   map[string]string{"reason": "checkup"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRef)

	_, err = res.Resolve(ctx, domain.KindConsultation, domain.DisplayedFields{
		PetID:    node.Generate().String(),
		ClientID: node.Generate().String(),
		Date:     "01/01/2025",
		Fields:   map[string]string{"reason": "checkup"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = res.Resolve(ctx, domain.KindConsultation, domain.DisplayedFields{
		PetID:    node.Generate().String(),
		ClientID: node.Generate().String(),
		Date:     "2025-01-01",
		Fields:   map[string]string{"reason": "  "},
	})
	var validation *domain.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "reason", validation.Field)
}
