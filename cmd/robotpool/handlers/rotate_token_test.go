package handlers

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/robotpool/internal/bootstrap"
	"github.com/imamik/robotpool/internal/config"
	"github.com/imamik/robotpool/internal/fleet"
)

func TestRotateToken_IssuesFreshToken(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig(t, manualPool())
	loadConfigFile = func(string) (*config.Config, error) { return cfg, nil }

	// First apply issues the initial token.
	require.NoError(t, Apply(context.Background(), "robotpool.yaml", false))

	store, err := bootstrap.OpenStore(cfg.TokenStatePath)
	require.NoError(t, err)
	before, ok := store.Lookup("db-1")
	require.True(t, ok)

	require.NoError(t, RotateToken(context.Background(), "robotpool.yaml", []string{"db-1"}))

	store, err = bootstrap.OpenStore(cfg.TokenStatePath)
	require.NoError(t, err)
	after, ok := store.Lookup("db-1")
	require.True(t, ok)

	assert.NotEqual(t, before.String(), after.String())
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "db-1-token.yaml"))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "db-1-join.md"))
}

func TestRotateToken_RejectsNativeNodes(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig(t, nativePool())
	loadConfigFile = func(string) (*config.Config, error) { return cfg, nil }

	err := RotateToken(context.Background(), "robotpool.yaml", []string{"metal-1"})
	require.Error(t, err)

	var validationErr *fleet.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Reason, "bootstrap tokens")
}

func TestRotateToken_UnknownHostname(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig(t, manualPool())
	loadConfigFile = func(string) (*config.Config, error) { return cfg, nil }

	err := RotateToken(context.Background(), "robotpool.yaml", []string{"ghost"})
	require.Error(t, err)

	var validationErr *fleet.ValidationError
	require.True(t, errors.As(err, &validationErr))
}
