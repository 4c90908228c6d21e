package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/robotpool/internal/config"
	"github.com/imamik/robotpool/internal/fleet"
)

func TestInstall_UnknownHostname(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig(t, nativePool())
	loadConfigFile = func(string) (*config.Config, error) { return cfg, nil }

	err := Install(context.Background(), "robotpool.yaml", []string{"no-such-host"})
	require.Error(t, err)

	var validationErr *fleet.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "no-such-host", validationErr.Hostname)
}

func TestInstall_RejectsManualModeNodes(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig(t, manualPool())
	loadConfigFile = func(string) (*config.Config, error) { return cfg, nil }

	err := Install(context.Background(), "robotpool.yaml", []string{"db-1"})
	require.Error(t, err)

	var validationErr *fleet.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Reason, "manual-mode")
}
