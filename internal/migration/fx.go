package migration

import (
	billingdomain "github.com/smallbiznis/vetledger/internal/billing/domain"
	clientdomain "github.com/smallbiznis/vetledger/internal/client/domain"
	"github.com/smallbiznis/vetledger/internal/config"
	petdomain "github.com/smallbiznis/vetledger/internal/pet/domain"
	"github.com/smallbiznis/vetledger/internal/seed"
	treatmentdomain "github.com/smallbiznis/vetledger/internal/treatment/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql installs are local or throwaway; gorm's
			// AutoMigrate keeps them usable without a migration history.
			if err := conn.AutoMigrate(
				&clientdomain.Client{},
				&petdomain.Pet{},
				&treatmentdomain.Record{},
				&billingdomain.Invoice{},
				&billingdomain.LineItem{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureWalkInClient(conn)
	}),
)
