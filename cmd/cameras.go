package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bdougie/camwatch/internal/config"
	"github.com/bdougie/camwatch/internal/hass"
)

var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "List the camera entities the server exposes",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}

		client := hass.New(cfg.HassURL, cfg.HassToken)
		cameras, err := client.Cameras(cmd.Context())
		if err != nil {
			fmt.Println("Error fetching cameras:", err)
			os.Exit(1)
		}
		if len(cameras) == 0 {
			fmt.Println("No camera entities found.")
			os.Exit(1)
		}

		for _, cam := range cameras {
			fmt.Printf("%-40s %-25s %s\n", cam.EntityID, cam.FriendlyName(), cam.State)
		}
	},
}

func init() {
	rootCmd.AddCommand(camerasCmd)
}
