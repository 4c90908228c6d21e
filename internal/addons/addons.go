// Package addons renders the packaged platform applications that make
// dedicated nodes useful: an ingress controller pinned to them and DNS
// record automation for what they serve. Output is plain manifests the
// operator applies alongside the generated node artifacts.
package addons

import (
	"fmt"

	"github.com/imamik/robotpool/internal/config"
)

// Manifest is one rendered addon.
type Manifest struct {
	// Name is the addon name, used for the output filename.
	Name string
	// Content is the combined multi-document manifest.
	Content []byte
}

// Render renders every enabled addon.
func Render(cfg *config.Config) ([]Manifest, error) {
	var manifests []Manifest

	if cfg.Addons.IngressNginx.Enabled {
		content, err := renderIngressNginx(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to render ingress-nginx: %w", err)
		}
		manifests = append(manifests, Manifest{Name: "ingress-nginx", Content: content})
	}

	if cfg.Addons.ExternalDNS.Enabled {
		content, err := renderExternalDNS(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to render external-dns: %w", err)
		}
		manifests = append(manifests, Manifest{Name: "external-dns", Content: content})
	}

	return manifests, nil
}
