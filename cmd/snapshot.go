package cmd

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/spf13/cobra"

	"github.com/bdougie/camwatch/internal/config"
	"github.com/bdougie/camwatch/internal/hass"
	"github.com/bdougie/camwatch/internal/store"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <entity_id>",
	Short: "Capture a single snapshot from one camera",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSnapshot(cmd, args[0]); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, entityID string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client := hass.New(cfg.HassURL, cfg.HassToken)
	cameras, err := client.Cameras(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch cameras: %w", err)
	}

	var cam hass.Entity
	for _, c := range cameras {
		if c.EntityID == entityID {
			cam = c
			break
		}
	}
	if cam.EntityID == "" {
		return fmt.Errorf("unknown camera entity: %s", entityID)
	}

	target := path.Join(cfg.SnapshotPath, store.FileBase(entityID)+".jpg")
	if err := client.TriggerSnapshot(ctx, entityID, target); err != nil {
		logger.Warn("snapshot trigger failed, retrieving current frame anyway", "err", err)
	}

	data, err := client.CameraImage(ctx, cam.Picture())
	if err != nil {
		return fmt.Errorf("frame retrieval failed: %w", err)
	}

	st := store.New(cfg.OutputDir)
	if err := st.EnsureDir(); err != nil {
		return err
	}
	snap, err := st.Save(entityID, time.Now(), data)
	if err != nil {
		return err
	}

	fmt.Printf("Saved %s (%d bytes)\n", snap.Path, len(data))
	return nil
}
