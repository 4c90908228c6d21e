package provisioning

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteArtifacts writes the generated artifacts under dir:
//
//	<hostname>.yaml             machine config (native nodes)
//	<hostname>-token.yaml       bootstrap-token secret (manual nodes)
//	<hostname>-join.md          join instructions (manual nodes)
//	addons/<name>.yaml          rendered addon manifests
//
// Machine configs and token secrets carry credentials, so everything is
// written owner-only.
func WriteArtifacts(ctx *Context, dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for hostname, data := range ctx.State.NodeConfigs {
		if err := writeArtifact(ctx, filepath.Join(dir, hostname+".yaml"), data); err != nil {
			return err
		}
	}
	for hostname, data := range ctx.State.Secrets {
		if err := writeArtifact(ctx, filepath.Join(dir, hostname+"-token.yaml"), data); err != nil {
			return err
		}
	}
	for hostname, data := range ctx.State.Instructions {
		if err := writeArtifact(ctx, filepath.Join(dir, hostname+"-join.md"), data); err != nil {
			return err
		}
	}

	if len(ctx.State.Addons) > 0 {
		addonDir := filepath.Join(dir, "addons")
		if err := os.MkdirAll(addonDir, 0o700); err != nil {
			return fmt.Errorf("failed to create addon directory: %w", err)
		}
		for name, data := range ctx.State.Addons {
			if err := writeArtifact(ctx, filepath.Join(addonDir, name+".yaml"), data); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeArtifact(ctx *Context, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	ctx.Observer.Event(Event{
		Type:     EventArtifactWritten,
		Resource: filepath.Base(path),
		Message:  path,
	})
	return nil
}
