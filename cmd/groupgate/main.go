package main

import (
	"github.com/afsacademy/groupgate/internal/audit"
	"github.com/afsacademy/groupgate/internal/clock"
	"github.com/afsacademy/groupgate/internal/config"
	"github.com/afsacademy/groupgate/internal/decision"
	"github.com/afsacademy/groupgate/internal/ledger"
	"github.com/afsacademy/groupgate/internal/logger"
	"github.com/afsacademy/groupgate/internal/migration"
	"github.com/afsacademy/groupgate/internal/observability"
	"github.com/afsacademy/groupgate/internal/registry"
	"github.com/afsacademy/groupgate/internal/report"
	"github.com/afsacademy/groupgate/internal/seed"
	"github.com/afsacademy/groupgate/internal/server"
	"github.com/afsacademy/groupgate/internal/worker"
	"github.com/afsacademy/groupgate/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		seed.Module,

		// Functional domains
		registry.Module,
		ledger.Module,
		audit.Module,
		report.Module,
		decision.Module,
		worker.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
