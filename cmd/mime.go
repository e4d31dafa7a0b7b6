package main

import (
	"context"

	"github.com/desertthunder/assetd/internal/assets"
	"github.com/desertthunder/assetd/internal/ui"
	"github.com/urfave/cli/v3"
)

// Mime prints the content type table, including overrides from the config.
func (r *Runner) Mime(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	entries := assets.NewMimeTable(config.Assets.MimeTypes).Entries()

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	for _, e := range entries {
		if err := r.writePlain("%-8s %s\n", e.Ext, e.Type); err != nil {
			return err
		}
	}
	return r.writePlain("%s\n", ui.Styles.Help("other extensions: "+assets.FallbackType))
}
