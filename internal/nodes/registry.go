package nodes

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Registry maps node names to nodes.
type Registry struct {
	nodes map[string]Node
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		nodes: make(map[string]Node),
	}
}

// NewDefaultRegistry returns a registry holding every built-in node
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, n := range builtins() {
		if err := r.Register(n); err != nil {
			panic(err)
		}
	}
	return r
}

func builtins() []Node {
	return []Node{
		LoadVideo{},
		SaveVideo{},
		ImagesToVideo{},
		VideoToImages{},
		CombineVideos{},
		VideoConcatenate{},
		VideoTransition{},
		VideoEffects{},
		ColorGrading{},
		BrightnessEffect{},
		ContrastEffect{},
		SpeedEffect{},
		TextOverlay{},
	}
}

// Register adds a node under its descriptor name
func (r *Registry) Register(n Node) error {
	name := n.Describe().Name
	if name == "" {
		return fmt.Errorf("node has no name")
	}
	if _, exists := r.nodes[name]; exists {
		return fmt.Errorf("node %q already registered", name)
	}
	r.nodes[name] = n
	return nil
}

// Get retrieves a node by name
func (r *Registry) Get(name string) (Node, bool) {
	n, ok := r.nodes[name]
	return n, ok
}

// List returns all registered node names in sorted order
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.nodes))
	for name := range r.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClassMappings returns the name to node table a host registers.
func (r *Registry) ClassMappings() map[string]Node {
	out := make(map[string]Node, len(r.nodes))
	for name, n := range r.nodes {
		out[name] = n
	}
	return out
}

// DisplayNames returns the name to human-readable label table.
func (r *Registry) DisplayNames() map[string]string {
	out := make(map[string]string, len(r.nodes))
	for name, n := range r.nodes {
		out[name] = n.Describe().DisplayName
	}
	return out
}

// Categories groups node names by category, each group sorted.
func (r *Registry) Categories() map[string][]string {
	out := make(map[string][]string)
	for _, name := range r.List() {
		cat := r.nodes[name].Describe().Category
		out[cat] = append(out[cat], name)
	}
	return out
}

// Execute resolves raw inputs for the named node and runs it.
func (r *Registry) Execute(ctx context.Context, env *Env, name string, raw Inputs) ([]any, error) {
	n, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown node %q", name)
	}
	return Run(ctx, env, n, raw)
}

// Run validates inputs against the node's descriptor, executes it and checks
// that it produced the declared outputs.
func Run(ctx context.Context, env *Env, n Node, raw Inputs) ([]any, error) {
	desc := n.Describe()
	in, err := desc.Resolve(raw)
	if err != nil {
		return nil, err
	}

	logger := env.Logger.With().Str("node", desc.Name).Logger()
	logger.Debug().Msg("executing node")
	start := time.Now()

	out, err := n.Execute(ctx, env, in)
	if err != nil {
		logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("node failed")
		return nil, fmt.Errorf("%s: %w", desc.Name, err)
	}
	if len(out) != len(desc.Outputs) {
		return nil, fmt.Errorf("%s: produced %d outputs, declared %d", desc.Name, len(out), len(desc.Outputs))
	}

	logger.Info().Dur("elapsed", time.Since(start)).Msg("node finished")
	return out, nil
}
