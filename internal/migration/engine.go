// Package migration maintains the directed graph of version-to-version
// record transforms and applies migration paths through it.
package migration

import (
	"fmt"
	"sync"

	"github.com/jonathan/resume-embed/internal/types"
	"github.com/jonathan/resume-embed/internal/version"
)

// Transform converts a record from a step's source version to its target
// version. Transforms must be pure: they receive a private copy and return
// the new shape.
type Transform func(rec types.Record) (types.Record, error)

// Step is a directed edge in the migration graph.
type Step struct {
	From        string
	To          string
	Description string
	Transform   Transform
}

// StepInfo describes one applied (or attempted) step in a result trail.
type StepInfo struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Description string `json:"description,omitempty"`
}

// Result is the outcome of a migration request.
type Result struct {
	OK          bool        `json:"ok"`
	Data        types.Record `json:"data,omitempty"`
	Err         error       `json:"-"`
	FromVersion string      `json:"from_version"`
	ToVersion   string      `json:"to_version"`

	// Steps lists the steps applied before completion or failure, in
	// order. Empty when no path exists or none were needed.
	Steps []StepInfo `json:"steps"`
}

// Engine holds the migration graph: an adjacency map keyed by source
// version, preserving registration order within each bucket so BFS
// tie-breaking is deterministic.
type Engine struct {
	mu      sync.RWMutex
	edges   map[string][]Step
	current string
}

// NewEngine returns an empty engine whose default target is the current
// version.
func NewEngine() *Engine {
	return &Engine{
		edges:   map[string][]Step{},
		current: version.Current,
	}
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the process-wide engine preloaded with the built-in
// catalogue. Deployment-specific steps may be layered on with Register.
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = NewEngine()
		for _, s := range BuiltinSteps() {
			// Built-in steps are well-formed by construction.
			_ = defaultEngine.Register(s)
		}
	})
	return defaultEngine
}

// Register adds a migration step. The step set is append-only; no check
// keeps the graph acyclic or connected, since BFS termination is
// guaranteed by the visited set regardless of shape.
func (e *Engine) Register(s Step) error {
	from, err := version.Parse(s.From)
	if err != nil {
		return fmt.Errorf("migration step has invalid source version: %w", err)
	}
	to, err := version.Parse(s.To)
	if err != nil {
		return fmt.Errorf("migration step has invalid target version: %w", err)
	}
	if from.Compare(to) == 0 {
		return fmt.Errorf("migration step %s -> %s is a self-loop", s.From, s.To)
	}
	if s.Transform == nil {
		return fmt.Errorf("migration step %s -> %s has no transform", s.From, s.To)
	}
	s.From, s.To = from.String(), to.String()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.edges[s.From] = append(e.edges[s.From], s)
	return nil
}

// CanMigrate reports whether a path exists from one version to another.
func (e *Engine) CanMigrate(from, to string) bool {
	from, to = version.Normalize(from), version.Normalize(to)
	if from == to {
		return true
	}
	return e.findPath(from, to) != nil
}

// Migrate moves a record to targetVersion, applying the shortest chain of
// registered steps. An empty target means the current version. The input
// record is never mutated; on failure the trail of steps applied before
// the failing edge is reported.
func (e *Engine) Migrate(rec types.Record, targetVersion string) *Result {
	from := version.Detect(rec, e.current)
	target := targetVersion
	if target == "" {
		target = e.current
	}
	target = version.Normalize(target)

	res := &Result{FromVersion: from, ToVersion: target, Steps: []StepInfo{}}

	if from == target {
		res.OK = true
		res.Data = rec
		return res
	}

	path := e.findPath(from, target)
	if path == nil {
		res.Err = &NoPathError{From: from, To: target}
		return res
	}

	data := rec.DeepCopy()
	for _, step := range path {
		next, err := applyStep(step, data)
		if err != nil {
			res.Err = &StepError{From: step.From, To: step.To, Cause: err}
			return res
		}
		data = next
		res.Steps = append(res.Steps, StepInfo{From: step.From, To: step.To, Description: step.Description})
	}

	// The version marker is authoritative even if the last transform
	// forgot to stamp it.
	data.SetVersion(target)

	res.OK = true
	res.Data = data
	return res
}

// findPath runs a breadth-first search over the edge list and returns the
// shortest step sequence, or nil. Ties are broken by registration order at
// each node, which the queue discipline preserves.
func (e *Engine) findPath(from, to string) []Step {
	e.mu.RLock()
	defer e.mu.RUnlock()

	type node struct {
		ver  string
		path []Step
	}
	visited := map[string]bool{from: true}
	queue := []node{{ver: from}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, step := range e.edges[cur.ver] {
			if visited[step.To] {
				continue
			}
			path := make([]Step, len(cur.path), len(cur.path)+1)
			copy(path, cur.path)
			path = append(path, step)
			if step.To == to {
				return path
			}
			visited[step.To] = true
			queue = append(queue, node{ver: step.To, path: path})
		}
	}
	return nil
}

// applyStep runs one transform, converting panics into errors so a broken
// transform surfaces as a failed step rather than taking the process down.
func applyStep(step Step, data types.Record) (out types.Record, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = fmt.Errorf("transform panicked: %v", p)
		}
	}()
	out, err = step.Transform(data)
	if err == nil && out == nil {
		err = fmt.Errorf("transform returned no record")
	}
	return out, err
}
