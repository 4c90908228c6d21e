package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/robotpool/internal/bootstrap"
	"github.com/imamik/robotpool/internal/fleet"
	"github.com/imamik/robotpool/internal/provisioning"
)

// RotateToken issues a fresh bootstrap token for the named manual-mode
// servers, replaces the token secret in the cluster, and regenerates the
// join artifacts. The old secret is deleted: its name carries the token
// ID, so rotation would otherwise leave a stale credential behind.
func RotateToken(ctx context.Context, configPath string, hostnames []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	pctx, err := newLifecycleContext(ctx, cfg, false)
	if err != nil {
		return err
	}

	if err := provisioning.RunPhases(pctx, []provisioning.Phase{&provisioning.TopologyPhase{}}); err != nil {
		return err
	}

	for _, name := range hostnames {
		node, ok := pctx.State.Routed.Lookup(name)
		if !ok {
			return &fleet.ValidationError{Hostname: name, Reason: "not part of the declared fleet"}
		}
		if node.Mode != fleet.JoinModeManual {
			return &fleet.ValidationError{Hostname: name, Reason: "only manual-mode nodes carry bootstrap tokens"}
		}

		old, hadOld := pctx.Tokens.Lookup(name)

		tok, err := pctx.Tokens.Rotate(name)
		if err != nil {
			return err
		}
		pctx.Observer.Event(provisioning.Event{
			Type:     provisioning.EventTokenRotated,
			Phase:    "rotate-token",
			Resource: name,
			Message:  tok.SecretName(),
		})

		manifest, err := bootstrap.SecretManifest(cfg.ClusterName, name, tok)
		if err != nil {
			return err
		}
		pctx.State.Secrets[name] = manifest

		instructions, err := bootstrap.RenderInstructions(cfg.Endpoint, *node, tok, name+"-token.yaml")
		if err != nil {
			return err
		}
		pctx.State.Instructions[name] = instructions

		if pctx.Kube != nil {
			if hadOld {
				if err := pctx.Kube.DeleteSecret(pctx, "kube-system", old.SecretName()); err != nil {
					return err
				}
			}
			if err := pctx.Kube.ApplySecret(pctx, bootstrap.BuildSecret(cfg.ClusterName, name, tok)); err != nil {
				return err
			}
		}
	}

	if err := provisioning.WriteArtifacts(pctx, cfg.OutputDir); err != nil {
		return err
	}

	fmt.Printf("\nRotated %d token(s). Updated artifacts written to: %s\n", len(hostnames), cfg.OutputDir)
	return nil
}
