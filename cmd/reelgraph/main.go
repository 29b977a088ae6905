package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kikiluvv/reelgraph/internal/config"
	"github.com/kikiluvv/reelgraph/internal/ffmpeg"
	"github.com/kikiluvv/reelgraph/internal/logging"
	"github.com/kikiluvv/reelgraph/internal/nodes"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cfgFile string
	verbose bool
	format  string
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "reelgraph",
	Short:         "reelgraph - video editing nodes for graph workflows",
	Long:          "Load, cut, join, grade and save video clips by running node graph workflows backed by ffmpeg.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional
		_ = godotenv.Load()

		cfg, err := config.Load(cfgFile)
		if err != nil {
			logging.Init(verbose, false)
			log.Error().Err(err).Msg("failed to load config")
			return err
		}

		logging.Init(verbose || cfg.Logging.Verbose, cfg.Logging.JSON)

		cmd.SetContext(config.WithConfig(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./reelgraph.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	describeCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml|json)")
	probeCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml|json)")

	rootCmd.AddCommand(nodesCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func newExecutor(cfg *config.Config) (*ffmpeg.Executor, error) {
	return ffmpeg.NewWithPaths(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.ProbePath, cfg.FFmpeg.Threads)
}

func write(w io.Writer, v any) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q", format)
}

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List available nodes by category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := nodes.NewDefaultRegistry()
		names := reg.DisplayNames()
		cats := reg.Categories()

		out := cmd.OutOrStdout()
		for _, cat := range sortedKeys(cats) {
			fmt.Fprintf(out, "%s\n", cat)
			for _, name := range cats[cat] {
				fmt.Fprintf(out, "  %-20s %s\n", name, names[name])
			}
		}
		return nil
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe [node]",
	Short: "Print a node's inputs and outputs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, ok := nodes.NewDefaultRegistry().Get(args[0])
		if !ok {
			return fmt.Errorf("unknown node %q", args[0])
		}
		return write(cmd.OutOrStdout(), n.Describe())
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe [file]",
	Short: "Print stream information for a video file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, err := newExecutor(config.FromContext(cmd.Context()))
		if err != nil {
			return err
		}
		info, err := exec.ProbeVideo(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		w, h := info.DisplaySize()
		return write(cmd.OutOrStdout(), map[string]any{
			"path":        info.FilePath,
			"duration":    info.Duration.Seconds(),
			"width":       w,
			"height":      h,
			"fps":         info.FPS,
			"frames":      info.Frames,
			"video_codec": info.VideoCodec,
			"pix_fmt":     info.PixelFormat,
			"has_audio":   info.HasAudio,
			"audio_codec": info.AudioCodec,
		})
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format = "yaml"
		return write(cmd.OutOrStdout(), config.FromContext(cmd.Context()))
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default config file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "reelgraph.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("config written")
		return nil
	},
}
