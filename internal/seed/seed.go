// Package seed bootstraps the records a fresh installation needs before
// the first client walks in.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/smallbiznis/vetledger/internal/client/domain"
	"gorm.io/gorm"
)

const (
	walkInName          = "Walk-in"
	walkInControlNumber = "CL-0000"
)

// EnsureWalkInClient seeds the catch-all client used for counter sales
// that are not tied to a registered owner. Safe to run on every startup.
func EnsureWalkInClient(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing clientdomain.Client
		res := tx.WithContext(ctx).
			Where("control_number = ?", walkInControlNumber).
			Limit(1).
			Find(&existing)
		if res.Error != nil {
			return res.Error
		}
		if existing.ID != 0 {
			return nil
		}

		return tx.WithContext(ctx).Create(&clientdomain.Client{
			ID:            node.Generate(),
			Name:          walkInName,
			ControlNumber: walkInControlNumber,
			Metadata:      map[string]interface{}{},
		}).Error
	})
}
