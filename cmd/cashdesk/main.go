package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/cashdeskhq/cashdesk/internal/clock"
	"github.com/cashdeskhq/cashdesk/internal/config"
	"github.com/cashdeskhq/cashdesk/internal/logger"
	"github.com/cashdeskhq/cashdesk/internal/migration"
	"github.com/cashdeskhq/cashdesk/internal/scheduler"
	"github.com/cashdeskhq/cashdesk/internal/server"
	"github.com/cashdeskhq/cashdesk/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		scheduler.Module,
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
