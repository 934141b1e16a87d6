package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/rpattn/credittrack/internal/config"
	"github.com/rpattn/credittrack/internal/db"
	"github.com/rpattn/credittrack/internal/ingestion"
	"github.com/rpattn/credittrack/internal/layout"
	"github.com/rpattn/credittrack/internal/repository"
)

// appEnv holds the wired dependencies shared by the commands.
type appEnv struct {
	conn     *db.Connection
	resolver *layout.Resolver
	service  *ingestion.Service
}

func initApp(ctx context.Context, c *config.Config) (*appEnv, error) {
	registry, err := layout.LoadRegistry(c.Ingestion.LayoutsFile)
	if err != nil {
		return nil, eris.Wrap(err, "load layouts")
	}

	conn, err := db.NewConnection(ctx, c.Database)
	if err != nil {
		return nil, eris.Wrap(err, "connect database")
	}

	resolver := layout.NewResolver(repository.NewProjectTypeRepository(conn.Pool), registry)
	service := ingestion.NewService(
		resolver,
		repository.NewStore(conn.Pool),
		repository.NewImportLedgerRepository(conn.Pool),
	)

	return &appEnv{conn: conn, resolver: resolver, service: service}, nil
}

func (e *appEnv) Close() {
	e.conn.Close()
}
