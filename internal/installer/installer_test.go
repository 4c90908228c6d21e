package installer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/robotpool/internal/fleet"
	"github.com/imamik/robotpool/internal/ssh"
)

type fakeComm struct {
	commands []string
	failOn   string
	err      error
}

func (f *fakeComm) Run(_ context.Context, command string) (string, error) {
	f.commands = append(f.commands, command)
	if f.failOn != "" && command == f.failOn {
		return "dd: no space left", f.err
	}
	return "", nil
}

func installNode() fleet.Node {
	return fleet.Node{
		Hostname:    "metal-1",
		InstallDisk: "/dev/nvme0n1",
		ImageURL:    "https://example.com/metal-amd64.raw.zst",
		AutoInstall: true,
	}
}

func newTestInstaller(comm *fakeComm) *Installer {
	inst := New(func(fleet.Node) ssh.Communicator { return comm }, 0)
	inst.sleep = func(context.Context, time.Duration) error { return nil }
	return inst
}

func TestInstall_WritesImageThenReboots(t *testing.T) {
	t.Parallel()
	comm := &fakeComm{}
	inst := newTestInstaller(comm)

	require.NoError(t, inst.Install(context.Background(), installNode()))

	require.Len(t, comm.commands, 2)
	assert.Contains(t, comm.commands[0], `wget -qO- "https://example.com/metal-amd64.raw.zst"`)
	assert.Contains(t, comm.commands[0], "zstd -d")
	assert.Contains(t, comm.commands[0], `dd of="/dev/nvme0n1" bs=4M`)
	assert.Contains(t, comm.commands[0], "&& sync")
	assert.Contains(t, comm.commands[1], "reboot")
}

func TestInstall_MissingImageOrDisk(t *testing.T) {
	t.Parallel()
	inst := newTestInstaller(&fakeComm{})

	node := installNode()
	node.ImageURL = ""
	var cfgErr *fleet.ConfigurationError
	err := inst.Install(context.Background(), node)
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "image_url", cfgErr.Field)

	node = installNode()
	node.InstallDisk = ""
	err = inst.Install(context.Background(), node)
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "install_disk", cfgErr.Field)
}

func TestInstall_WriteFailureIsRemoteInstallFailure(t *testing.T) {
	t.Parallel()
	comm := &fakeComm{err: errors.New("exit status 1")}
	inst := newTestInstaller(comm)
	comm.failOn = writeImageCommand(installNode())

	err := inst.Install(context.Background(), installNode())

	var installErr *fleet.RemoteInstallFailure
	require.ErrorAs(t, err, &installErr)
	assert.Equal(t, "metal-1", installErr.Hostname)
	assert.Contains(t, installErr.Error(), "no space left")

	// No reboot after a failed write; the rescue system stays up for
	// inspection.
	assert.Len(t, comm.commands, 1)
}

func TestInstall_RebootErrorIsTolerated(t *testing.T) {
	t.Parallel()
	comm := &fakeComm{err: errors.New("connection reset")}
	inst := newTestInstaller(comm)
	comm.failOn = "nohup reboot >/dev/null 2>&1 &"

	assert.NoError(t, inst.Install(context.Background(), installNode()))
}

func TestWriteImageCommand_Decompressors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "zstd", url: "https://x/metal.raw.zst", want: "zstd -d"},
		{name: "xz", url: "https://x/metal.raw.xz", want: "xz -d"},
		{name: "gzip", url: "https://x/metal.raw.gz", want: "gzip -d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			node := installNode()
			node.ImageURL = tt.url
			assert.Contains(t, writeImageCommand(node), tt.want)
		})
	}

	t.Run("raw image has no decompressor", func(t *testing.T) {
		t.Parallel()
		node := installNode()
		node.ImageURL = "https://x/metal.raw"
		cmd := writeImageCommand(node)
		assert.NotContains(t, cmd, "zstd")
		assert.NotContains(t, cmd, "xz")
	})
}

func TestState_TriggeredByImageOrDiskChange(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "installs.yaml")

	state, err := OpenState(path)
	require.NoError(t, err)

	node := installNode()
	assert.True(t, state.NeedsInstall(node), "never-installed node needs an install")

	require.NoError(t, state.MarkInstalled(node))
	assert.False(t, state.NeedsInstall(node), "unchanged node is skipped")

	changedImage := node
	changedImage.ImageURL = "https://example.com/metal-amd64-v2.raw.zst"
	assert.True(t, state.NeedsInstall(changedImage))

	changedDisk := node
	changedDisk.InstallDisk = "/dev/sda"
	assert.True(t, state.NeedsInstall(changedDisk))

	// State survives a reload.
	reloaded, err := OpenState(path)
	require.NoError(t, err)
	assert.False(t, reloaded.NeedsInstall(node))

	require.NoError(t, reloaded.Forget(node.Hostname))
	assert.True(t, reloaded.NeedsInstall(node))
}
