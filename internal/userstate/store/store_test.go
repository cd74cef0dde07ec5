package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syntrixbase/crm/internal/userstate"
	"github.com/syntrixbase/crm/internal/userstate/store/memory"
)

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), userstate.Config{Store: userstate.StoreMemory})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, s)

	_, err = Open(context.Background(), userstate.Config{Store: "duckdb"})
	assert.Error(t, err)
}
