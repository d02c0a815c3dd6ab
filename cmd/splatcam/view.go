package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jask/splatcam/internal/config"
	"github.com/jask/splatcam/internal/engine/desktop"
	"github.com/jask/splatcam/internal/viewer"
)

func newViewCmd(cfg *config.Config) *cobra.Command {
	var asset string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open a splat in a desktop viewer window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asset == "" {
				asset = cfg.Viewer.AssetURL
			}
			binding := viewer.NewBinding(&desktop.Engine{MaxBytes: cfg.Viewer.MaxAssetBytes()}, slog.Default())
			win := desktop.NewWindow(cmd.Context(), binding, desktop.WindowConfig{
				Title:  "SplatCam",
				Width:  cfg.Viewer.WindowWidth,
				Height: cfg.Viewer.WindowHeight,
				TPS:    cfg.Viewer.FPS,
			}, slog.Default())
			return win.Run(asset)
		},
	}

	cmd.Flags().StringVar(&asset, "asset", "", "splat URL or path (default viewer.asset_url)")
	return cmd
}
