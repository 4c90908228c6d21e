package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "10s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default install channel bounds. The connect timeout caps the SSH dial
// into the rescue system; the settle delay is the fixed wait after the
// reboot into the freshly written image.
const (
	DefaultInstallConnectTimeout = 5 * time.Minute
	DefaultInstallSettleDelay    = 90 * time.Second
)

// withDefaults fills unset install bounds.
func (ic *InstallConfig) withDefaults() {
	if ic.ConnectTimeout == 0 {
		ic.ConnectTimeout = Duration(DefaultInstallConnectTimeout)
	}
	if ic.SettleDelay == 0 {
		ic.SettleDelay = Duration(DefaultInstallSettleDelay)
	}
}
