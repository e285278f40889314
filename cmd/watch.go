package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bdougie/camwatch/internal/config"
	"github.com/bdougie/camwatch/internal/dedup"
	"github.com/bdougie/camwatch/internal/describe"
	"github.com/bdougie/camwatch/internal/hass"
	"github.com/bdougie/camwatch/internal/notify"
	"github.com/bdougie/camwatch/internal/store"
	"github.com/bdougie/camwatch/internal/watcher"
)

var (
	watchCameras  []string
	watchAll      bool
	watchInterval int
	watchPrompt   string
	watchNotify   bool
	watchTarget   string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the selected cameras and describe new activity",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runWatch(cmd); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringSliceVar(&watchCameras, "cameras", nil, "camera entity ids to watch (prompts when omitted)")
	watchCmd.Flags().BoolVar(&watchAll, "all", false, "watch every discovered camera")
	watchCmd.Flags().IntVar(&watchInterval, "interval", 0, "polling interval in minutes (prompts when omitted)")
	watchCmd.Flags().StringVar(&watchPrompt, "prompt", "", "description prompt sent to the vision model")
	watchCmd.Flags().BoolVar(&watchNotify, "notify", false, "push descriptions as notifications")
	watchCmd.Flags().StringVar(&watchTarget, "target", "", "mobile app notification target (device suffix)")
}

func runWatch(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client := hass.New(cfg.HassURL, cfg.HassToken)
	if err := client.CheckAPI(ctx); err != nil {
		logger.Warn("server connectivity check failed, continuing anyway", "err", err)
	}

	states, err := client.States(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch entity states: %w", err)
	}

	cameras := hass.FilterCameras(states)
	if len(cameras) == 0 {
		return fmt.Errorf("no camera entities discoverable on %s", cfg.HassURL)
	}

	st := store.New(cfg.OutputDir)
	if err := st.EnsureDir(); err != nil {
		return err
	}
	if err := st.WriteStates(states); err != nil {
		logger.Warn("failed to write startup state snapshot", "err", err)
	}

	stdin := bufio.NewReader(os.Stdin)

	selected, err := selectCameras(stdin, cameras)
	if err != nil {
		return err
	}

	if watchInterval == 0 {
		watchInterval, err = askInt(stdin, "Polling interval in minutes", 5)
		if err != nil {
			return err
		}
	}
	if watchPrompt == "" {
		watchPrompt = askLine(stdin, fmt.Sprintf("Description prompt [%s]", watcher.DefaultPrompt))
	}
	if !watchNotify && !cmd.Flags().Changed("notify") {
		watchNotify = askYesNo(stdin, "Send push notifications?")
	}
	if watchNotify && watchTarget == "" {
		watchTarget = askLine(stdin, "Notification target (mobile app device suffix)")
		if watchTarget == "" {
			logger.Warn("no notification target resolved, notifications disabled")
			watchNotify = false
		}
	}

	agent, err := describe.NewAgent(ctx, cfg.OllamaURL, cfg.OllamaPort, cfg.Model, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vision agent: %w", err)
	}
	describer := describe.NewDescriber(agent, logger)
	detector := dedup.New(st, logger)

	var relay watcher.Notifier
	if watchNotify {
		relay = notify.NewRelay(client, watchTarget, logger)
	}

	cycleCfg := watcher.CycleConfig{
		Cameras:      selected,
		Interval:     config.IntervalFromMinutes(watchInterval),
		Prompt:       watchPrompt,
		SnapshotPath: cfg.SnapshotPath,
		Notify:       watchNotify,
	}

	logger.Info("starting watch loop",
		"cameras", len(selected),
		"interval", cycleCfg.Interval,
		"notify", watchNotify,
	)

	w := watcher.New(client, st, detector, describer, relay, cycleCfg, logger)
	w.Run(ctx)
	return nil
}

// selectCameras resolves the camera set from flags, or interactively when
// neither --cameras nor --all was given.
func selectCameras(stdin *bufio.Reader, cameras []hass.Entity) ([]hass.Entity, error) {
	if watchAll {
		return cameras, nil
	}

	if len(watchCameras) > 0 {
		byID := make(map[string]hass.Entity, len(cameras))
		for _, cam := range cameras {
			byID[cam.EntityID] = cam
		}
		var selected []hass.Entity
		for _, id := range watchCameras {
			cam, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("unknown camera entity: %s", id)
			}
			selected = append(selected, cam)
		}
		return selected, nil
	}

	fmt.Println("Discovered cameras:")
	for i, cam := range cameras {
		fmt.Printf("  %2d. %s (%s)\n", i+1, cam.EntityID, cam.FriendlyName())
	}

	answer := askLine(stdin, "Cameras to watch (comma-separated numbers, or 'all')")
	if answer == "" || strings.EqualFold(answer, "all") {
		return cameras, nil
	}

	var selected []hass.Entity
	for _, field := range strings.Split(answer, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n < 1 || n > len(cameras) {
			return nil, fmt.Errorf("invalid camera selection: %q", field)
		}
		selected = append(selected, cameras[n-1])
	}
	return selected, nil
}

func askLine(stdin *bufio.Reader, question string) string {
	fmt.Printf("%s: ", question)
	line, _ := stdin.ReadString('\n')
	return strings.TrimSpace(line)
}

func askInt(stdin *bufio.Reader, question string, fallback int) (int, error) {
	answer := askLine(stdin, fmt.Sprintf("%s [%d]", question, fallback))
	if answer == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid interval: %q", answer)
	}
	return n, nil
}

func askYesNo(stdin *bufio.Reader, question string) bool {
	answer := askLine(stdin, question+" [y/N]")
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}
