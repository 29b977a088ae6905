package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/kikiluvv/reelgraph/internal/config"
	"github.com/kikiluvv/reelgraph/internal/ffmpeg"
	"github.com/kikiluvv/reelgraph/internal/graph"
	"github.com/kikiluvv/reelgraph/internal/nodes"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [workflow]",
	Short: "Execute a workflow file (YAML or JSON)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		prompt, err := graph.LoadPrompt(args[0])
		if err != nil {
			return err
		}
		exec, err := newExecutor(cfg)
		if err != nil {
			return err
		}

		reg := nodes.NewDefaultRegistry()
		env := nodes.NewEnv(log.Logger, exec, cfg)
		env.OnProgress = progressLogger(time.Second)
		runner := graph.NewRunner(reg, env)

		res, runErr := runner.Run(cmd.Context(), prompt)
		if res != nil {
			printSummary(cmd.OutOrStdout(), reg, res)
		}
		if runErr != nil {
			log.Error().Err(runErr).Msg("workflow failed")
		}
		return runErr
	},
}

// progressLogger reports encoder progress at most once per interval per
// output, plus the final update.
func progressLogger(interval time.Duration) func(string, *ffmpeg.Progress) {
	last := map[string]time.Time{}
	return func(output string, p *ffmpeg.Progress) {
		now := time.Now()
		if p.Percentage < 100 && now.Sub(last[output]) < interval {
			return
		}
		last[output] = now
		log.Info().
			Str("output", output).
			Int("frame", p.Frame).
			Str("percent", fmt.Sprintf("%.1f%%", p.Percentage)).
			Str("speed", p.Speed).
			Msg("encoding")
	}
}

func printSummary(w io.Writer, reg *nodes.Registry, res *graph.Result) {
	fmt.Fprintf(w, "run %s\n", res.RunID)
	for _, id := range res.Order {
		nr := res.Nodes[id]
		if nr == nil {
			continue
		}
		fmt.Fprintf(w, "  %-6s %-18s %-8s", id, nr.ClassType, nr.Status)
		switch {
		case nr.Err != nil:
			fmt.Fprintf(w, " %v", nr.Err)
		case nr.Status == graph.StatusDone && isOutputNode(reg, nr.ClassType):
			for _, v := range nr.Outputs {
				fmt.Fprintf(w, " %v", v)
			}
		}
		fmt.Fprintln(w)
	}
}

func isOutputNode(reg *nodes.Registry, class string) bool {
	n, ok := reg.Get(class)
	return ok && n.Describe().OutputNode
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
