package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-seeker/config"
)

func TestOpenCSV(t *testing.T) {
	for _, backend := range []string{"csv", ""} {
		s, err := Open(context.Background(), config.Store{Backend: backend, Target: t.TempDir()}, nil)
		require.NoError(t, err)
		assert.IsType(t, &CSVStore{}, s)
		assert.NoError(t, s.Close())
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.Store{Backend: "dynamo"}, nil)
	assert.ErrorContains(t, err, `unknown backend "dynamo"`)
}
