package main

import (
	"fmt"
	"os"

	"github.com/jwulff/trimbar/internal/app"
	"github.com/jwulff/trimbar/internal/config"
	"github.com/jwulff/trimbar/internal/logger"
	"github.com/jwulff/trimbar/internal/trim"
	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	flagSocket    string
	flagStart     float64
	flagEndOffset float64
	flagLogLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "trimbar",
	Short: "Trim a clip playing in mpv from the terminal",
	Long: `Trimbar attaches to a running mpv over its JSON IPC socket and draws a
trim bar for the loaded media. Drag the handles or the selection with the
mouse; mpv loops playback inside the selected window.

Start mpv with --input-ipc-server=<socket> first.`,
	SilenceUsage: true,
	RunE:         run,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&flagSocket, "socket", "", "mpv IPC socket path")
	rootCmd.Flags().Float64Var(&flagStart, "start", 0, "initial trim start in seconds")
	rootCmd.Flags().Float64Var(&flagEndOffset, "end-offset", 0, "initial trim end, in seconds before the end of the media")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logFile, err := logger.InitFile(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger.Log.Info().
		Str("socket", cfg.Player.Socket).
		Str("level", cfg.Logging.Level).
		Msg("starting trimbar")

	m := app.New(app.Options{
		Socket:         cfg.Player.Socket,
		ConnectTimeout: cfg.Player.ConnectTimeout,
		FrameInterval:  cfg.UI.FrameInterval(),
		Trim: trim.Options{
			StartTime:   cfg.Trim.Start,
			EndOffset:   cfg.Trim.EndOffset,
			Throttle:    cfg.Trim.Throttle,
			HandleWidth: cfg.Trim.HandleWidth,
		},
		Logger: logger.Log,
	})

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		logger.Log.Error().Err(err).Msg("tui exited with error")
		return fmt.Errorf("run tui: %w", err)
	}
	logger.Log.Info().Msg("trimbar exited")
	return nil
}

// applyFlags overrides config values with flags the user actually passed.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("socket") {
		cfg.Player.Socket = flagSocket
	}
	if flags.Changed("start") {
		start := flagStart
		cfg.Trim.Start = &start
	}
	if flags.Changed("end-offset") {
		offset := flagEndOffset
		cfg.Trim.EndOffset = &offset
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = flagLogLevel
	}
}
