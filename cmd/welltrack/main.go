package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/welltrack/welltrack/internal/auth"
	"github.com/welltrack/welltrack/internal/config"
	"github.com/welltrack/welltrack/internal/labeling"
	"github.com/welltrack/welltrack/internal/migration"
	"github.com/welltrack/welltrack/internal/observability"
	"github.com/welltrack/welltrack/internal/providers/pdf"
	"github.com/welltrack/welltrack/internal/server"
	"github.com/welltrack/welltrack/internal/session"
	"github.com/welltrack/welltrack/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Functional domains
		labeling.Module,
		auth.Module,
		session.Module,
		pdf.Module,

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
