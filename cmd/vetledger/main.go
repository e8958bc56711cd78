package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vetledger/internal/billing"
	billingdomain "github.com/smallbiznis/vetledger/internal/billing/domain"
	"github.com/smallbiznis/vetledger/internal/client"
	clientdomain "github.com/smallbiznis/vetledger/internal/client/domain"
	"github.com/smallbiznis/vetledger/internal/config"
	"github.com/smallbiznis/vetledger/internal/export"
	"github.com/smallbiznis/vetledger/internal/export/pdf"
	"github.com/smallbiznis/vetledger/internal/logger"
	"github.com/smallbiznis/vetledger/internal/migration"
	"github.com/smallbiznis/vetledger/internal/pet"
	petdomain "github.com/smallbiznis/vetledger/internal/pet/domain"
	"github.com/smallbiznis/vetledger/internal/treatment"
	treatmentdomain "github.com/smallbiznis/vetledger/internal/treatment/domain"
	"github.com/smallbiznis/vetledger/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Functional domains
		client.Module,
		pet.Module,
		treatment.Module,
		billing.Module,
		export.Module,

		fx.Invoke(ready),
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

// ready forces construction of every service at startup so a broken wiring
// fails the boot instead of the first request.
func ready(
	log *zap.Logger,
	_ clientdomain.Service,
	_ petdomain.Service,
	_ treatmentdomain.Service,
	_ billingdomain.Service,
	_ pdf.Provider,
) {
	log.Info("vetledger ready")
}
