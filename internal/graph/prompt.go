// Package graph evaluates workflow documents made of node invocations.
package graph

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// NodeSpec is one entry of a prompt: the node class and its raw inputs.
// An input value of the form [node_id, output_index] links to another
// node's output; a list of such pairs feeds a list input.
type NodeSpec struct {
	ClassType string         `yaml:"class_type" json:"class_type"`
	Inputs    map[string]any `yaml:"inputs" json:"inputs"`
}

// Prompt maps node ids to their invocations.
type Prompt map[string]NodeSpec

// Link references output Output of node Node.
type Link struct {
	Node   string
	Output int
}

// ParsePrompt decodes a YAML or JSON prompt document.
func ParsePrompt(data []byte) (Prompt, error) {
	var p Prompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse prompt: %w", err)
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("prompt has no nodes")
	}
	for id, spec := range p {
		if spec.ClassType == "" {
			return nil, fmt.Errorf("node %s: missing class_type", id)
		}
	}
	return p, nil
}

// LoadPrompt reads and parses a prompt file.
func LoadPrompt(path string) (Prompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt: %w", err)
	}
	return ParsePrompt(data)
}

// IDs returns the node ids in a stable order: numeric ids ascending, then
// the rest lexically.
func (p Prompt) IDs() []string {
	ids := make([]string, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return lessID(ids[i], ids[j]) })
	return ids
}

func lessID(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

// asLink reports whether v is a [node_id, output_index] pair.
func asLink(v any) (Link, bool) {
	pair, ok := v.([]any)
	if !ok || len(pair) != 2 {
		return Link{}, false
	}
	var node string
	switch id := pair[0].(type) {
	case string:
		node = id
	case int:
		node = strconv.Itoa(id)
	default:
		return Link{}, false
	}
	out, ok := pair[1].(int)
	if !ok {
		return Link{}, false
	}
	return Link{Node: node, Output: out}, true
}

// links returns every link in a raw input value, in order.
func links(v any) []Link {
	if l, ok := asLink(v); ok {
		return []Link{l}
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []Link
	for _, item := range list {
		l, ok := asLink(item)
		if !ok {
			return nil
		}
		out = append(out, l)
	}
	return out
}
