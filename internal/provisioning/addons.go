package provisioning

import (
	"github.com/imamik/robotpool/internal/addons"
	"github.com/imamik/robotpool/internal/config"
)

// renderAddons bridges the addon renderer into the phase, keyed by
// addon name.
func renderAddons(cfg *config.Config) (map[string][]byte, error) {
	manifests, err := addons.Render(cfg)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(manifests))
	for _, m := range manifests {
		out[m.Name] = m.Content
	}
	return out, nil
}
