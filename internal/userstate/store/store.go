// Package store opens the user store selected by configuration.
package store

import (
	"context"
	"fmt"

	"github.com/syntrixbase/crm/internal/userstate"
	"github.com/syntrixbase/crm/internal/userstate/store/memory"
	"github.com/syntrixbase/crm/internal/userstate/store/mongo"
	"github.com/syntrixbase/crm/internal/userstate/store/postgres"
)

// Open connects to the configured backend.
func Open(ctx context.Context, cfg userstate.Config) (userstate.Store, error) {
	switch cfg.Store {
	case userstate.StoreMemory, "":
		return memory.New()
	case userstate.StoreMongo:
		return mongo.New(ctx, cfg.Mongo)
	case userstate.StorePostgres:
		return postgres.New(ctx, cfg.Postgres)
	}
	return nil, fmt.Errorf("unsupported user store %q", cfg.Store)
}
