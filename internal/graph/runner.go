package graph

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kikiluvv/reelgraph/internal/logging"
	"github.com/kikiluvv/reelgraph/internal/nodes"
	"github.com/rs/zerolog"
)

// ErrCycle is returned when links form a loop.
var ErrCycle = errors.New("workflow contains a cycle")

// Status is the outcome of one node in a run.
type Status string

const (
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// NodeResult records what happened to one node.
type NodeResult struct {
	ID          string
	ClassType   string
	Status      Status
	Outputs     []any
	Err         error
	Fingerprint string
	Elapsed     time.Duration
}

// Result is the outcome of a whole run.
type Result struct {
	RunID string
	Order []string
	Nodes map[string]*NodeResult
}

// Outputs returns the outputs of node id, or nil if it did not finish.
func (r *Result) Outputs(id string) []any {
	if n, ok := r.Nodes[id]; ok && n.Status == StatusDone {
		return n.Outputs
	}
	return nil
}

// Runner evaluates prompts against a registry, one node at a time.
type Runner struct {
	registry *nodes.Registry
	env      *nodes.Env
	logger   zerolog.Logger
}

// NewRunner creates a runner executing nodes from reg with env.
func NewRunner(reg *nodes.Registry, env *nodes.Env) *Runner {
	return &Runner{
		registry: reg,
		env:      env,
		logger:   logging.Component(env.Logger, "graph"),
	}
}

// Validate checks that every class exists, every link points at a declared
// output, and the graph is acyclic. It returns the evaluation order.
func (r *Runner) Validate(p Prompt) ([]string, error) {
	deps := make(map[string][]string, len(p))
	var errs []error

	for _, id := range p.IDs() {
		spec := p[id]
		if _, ok := r.registry.Get(spec.ClassType); !ok {
			errs = append(errs, fmt.Errorf("node %s: unknown class %q", id, spec.ClassType))
			continue
		}
		seen := make(map[string]bool)
		for _, name := range inputNames(spec) {
			for _, l := range links(spec.Inputs[name]) {
				if err := r.checkLink(p, l); err != nil {
					errs = append(errs, fmt.Errorf("node %s input %s: %w", id, name, err))
					continue
				}
				if !seen[l.Node] {
					seen[l.Node] = true
					deps[id] = append(deps[id], l.Node)
				}
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return topoSort(p.IDs(), deps)
}

func inputNames(spec NodeSpec) []string {
	names := make([]string, 0, len(spec.Inputs))
	for name := range spec.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Runner) checkLink(p Prompt, l Link) error {
	target, ok := p[l.Node]
	if !ok {
		return fmt.Errorf("links to missing node %s", l.Node)
	}
	n, ok := r.registry.Get(target.ClassType)
	if !ok {
		// reported against the target itself
		return nil
	}
	outputs := n.Describe().Outputs
	if l.Output < 0 || l.Output >= len(outputs) {
		return fmt.Errorf("node %s has no output %d", l.Node, l.Output)
	}
	return nil
}

// topoSort orders ids so every node follows its dependencies, keeping the
// given order among independent nodes.
func topoSort(ids []string, deps map[string][]string) ([]string, error) {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[string]int, len(ids))
	order := make([]string, 0, len(ids))
	var path []string

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case visited:
			return nil
		case visiting:
			start := 0
			for i, p := range path {
				if p == id {
					start = i
				}
			}
			loop := append(append([]string{}, path[start:]...), id)
			return fmt.Errorf("%w: %s", ErrCycle, strings.Join(loop, " -> "))
		}
		state[id] = visiting
		path = append(path, id)
		for _, d := range deps[id] {
			if err := visit(d); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[id] = visited
		order = append(order, id)
		return nil
	}

	for _, id := range ids {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Run validates p and evaluates it. A failed node marks every node that
// depends on it as skipped; independent nodes still run. The returned error
// joins every node failure.
func (r *Runner) Run(ctx context.Context, p Prompt) (*Result, error) {
	order, err := r.Validate(p)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID: uuid.NewString(),
		Order: order,
		Nodes: make(map[string]*NodeResult, len(order)),
	}
	logger := r.logger.With().Str("run_id", res.RunID).Logger()
	logger.Info().Int("nodes", len(order)).Msg("starting workflow")
	start := time.Now()

	env := *r.env
	env.Logger = logger

	var errs []error
	for _, id := range order {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		spec := p[id]
		nr := &NodeResult{ID: id, ClassType: spec.ClassType}
		res.Nodes[id] = nr

		raw, blocked := r.bind(spec, res)
		if blocked != "" {
			nr.Status = StatusSkipped
			logger.Warn().Str("id", id).Str("blocked_by", blocked).Msg("skipping node")
			continue
		}

		nodeStart := time.Now()
		nr.Fingerprint = r.fingerprint(&env, spec.ClassType, raw)
		nr.Outputs, nr.Err = r.registry.Execute(ctx, &env, spec.ClassType, raw)
		nr.Elapsed = time.Since(nodeStart)
		if nr.Err != nil {
			nr.Status = StatusFailed
			errs = append(errs, fmt.Errorf("node %s: %w", id, nr.Err))
			continue
		}
		nr.Status = StatusDone
	}

	logger.Info().
		Dur("elapsed", time.Since(start)).
		Int("failed", len(errs)).
		Msg("workflow finished")

	return res, errors.Join(errs...)
}

// bind substitutes link values with upstream outputs. It returns the id of
// an upstream node that did not finish, if any.
func (r *Runner) bind(spec NodeSpec, res *Result) (nodes.Inputs, string) {
	raw := make(nodes.Inputs, len(spec.Inputs))
	for name, v := range spec.Inputs {
		ls := links(v)
		if ls == nil {
			raw[name] = v
			continue
		}
		values := make([]any, len(ls))
		for i, l := range ls {
			outs := res.Outputs(l.Node)
			if outs == nil {
				return nil, l.Node
			}
			values[i] = outs[l.Output]
		}
		if _, single := asLink(v); single {
			raw[name] = values[0]
		} else {
			raw[name] = values
		}
	}
	return raw, ""
}

func (r *Runner) fingerprint(env *nodes.Env, class string, raw nodes.Inputs) string {
	n, _ := r.registry.Get(class)
	fp, ok := n.(nodes.Fingerprinter)
	if !ok {
		return ""
	}
	in, err := n.Describe().Resolve(raw)
	if err != nil {
		return ""
	}
	sum, err := fp.Fingerprint(env, in)
	if err != nil {
		env.Logger.Debug().Err(err).Str("class", class).Msg("fingerprint unavailable")
		return ""
	}
	return sum
}
