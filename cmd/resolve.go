package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/assetd/internal/assets"
	"github.com/desertthunder/assetd/internal/shared"
	"github.com/desertthunder/assetd/internal/ui"
	"github.com/urfave/cli/v3"
)

// Resolve prints what a request for the given path would return, without starting a server.
func (r *Runner) Resolve(ctx context.Context, cmd *cli.Command) error {
	urlPath := cmd.StringArg("path")
	if urlPath == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(urlPath, "/") {
		urlPath = "/" + urlPath
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	resolver, err := r.newResolver(config)
	if err != nil {
		return err
	}

	resp := assets.NewHandler(resolver, nil, r.logger).Deliver(ctx, urlPath)

	contentType := resp.Target.ContentType
	if contentType == "" {
		contentType = "-"
	}

	lines := []string{
		ui.Styles.Title(urlPath),
		"  candidate  " + resp.Target.Path,
		"  extension  " + resp.Target.Ext,
		"  type       " + contentType,
		"  verdict    " + ui.Styles.Status(resp.Status) + " " + verdict(resp.Status),
	}
	if resp.Err != nil && resp.Status != http.StatusOK {
		lines = append(lines, "  reason     "+ui.Styles.Help(resp.Err.Error()))
	}

	for _, line := range lines {
		if err := r.writePlain("%s\n", line); err != nil {
			return err
		}
	}

	return nil
}

func verdict(status int) string {
	switch status {
	case http.StatusOK:
		return "serve"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not found"
	default:
		return "error"
	}
}
