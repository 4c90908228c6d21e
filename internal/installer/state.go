package installer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/imamik/robotpool/internal/fleet"
)

// record is what a completed install pinned: which image went onto
// which disk.
type record struct {
	ImageURL    string `yaml:"image_url"`
	InstallDisk string `yaml:"install_disk"`
}

// State remembers completed installs per hostname so re-applying skips
// machines that already carry the requested image on the requested
// disk. A changed image URL or install disk triggers a reinstall.
type State struct {
	path    string
	records map[string]record
}

type installStateFile struct {
	Installs map[string]record `yaml:"installs"`
}

// OpenState loads install state from path, starting empty when the file
// does not exist.
func OpenState(path string) (*State, error) {
	s := &State{path: path, records: map[string]record{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read install state: %w", err)
	}

	var file installStateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse install state %s: %w", path, err)
	}
	if file.Installs != nil {
		s.records = file.Installs
	}
	return s, nil
}

// NeedsInstall reports whether the node's image or disk differ from what
// the last completed install recorded. Nodes never installed before
// always need one.
func (s *State) NeedsInstall(node fleet.Node) bool {
	rec, ok := s.records[node.Hostname]
	if !ok {
		return true
	}
	return rec.ImageURL != node.ImageURL || rec.InstallDisk != node.InstallDisk
}

// MarkInstalled records a completed install for the node.
func (s *State) MarkInstalled(node fleet.Node) error {
	s.records[node.Hostname] = record{
		ImageURL:    node.ImageURL,
		InstallDisk: node.InstallDisk,
	}
	return s.save()
}

// Forget drops the record for hostname, forcing the next apply to
// reinstall. Unknown hostnames are a no-op.
func (s *State) Forget(hostname string) error {
	if _, ok := s.records[hostname]; !ok {
		return nil
	}
	delete(s.records, hostname)
	return s.save()
}

func (s *State) save() error {
	data, err := yaml.Marshal(installStateFile{Installs: s.records})
	if err != nil {
		return fmt.Errorf("failed to marshal install state: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write install state: %w", err)
	}
	return nil
}
