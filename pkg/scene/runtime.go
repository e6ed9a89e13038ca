// Package scene is the versioned entry point hosts program against.
//
// A [Runtime] owns every piece of process-wide state: the node id
// generator, the callback method table, the instrumentation delays, the
// trace sink, the dirty pipeline and the event queue. Hosts construct one at
// startup and drive all tree operations through it from a single goroutine.
package scene

import (
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/mod/semver"

	"github.com/go-drift/scene/pkg/callback"
	"github.com/go-drift/scene/pkg/config"
	"github.com/go-drift/scene/pkg/errors"
	"github.com/go-drift/scene/pkg/event"
	"github.com/go-drift/scene/pkg/instrument"
	"github.com/go-drift/scene/pkg/layout"
	"github.com/go-drift/scene/pkg/lazy"
	"github.com/go-drift/scene/pkg/node"
	"github.com/go-drift/scene/pkg/trace"
)

var (
	// ErrIncompatibleAPI is returned by Negotiate when the host expects an
	// API this build does not provide.
	ErrIncompatibleAPI = stderrors.New("incompatible API version")
	// ErrInvalidFlags is returned by CreateNode for unknown flag bits.
	ErrInvalidFlags = stderrors.New("invalid node flags")
)

const allFlags = node.FlagCustomMeasure | node.FlagCustomLayout | node.FlagCustomDraw

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogOutput sends verbose trace output to w instead of stderr.
func WithLogOutput(w io.Writer) Option {
	return func(r *Runtime) { r.logOut = w }
}

// WithVM sets the context passed to every callback.
func WithVM(vm callback.VMContext) Option {
	return func(r *Runtime) { r.vm = vm }
}

// WithTracer observes every phase entry.
func WithTracer(t layout.Tracer) Option {
	return func(r *Runtime) { r.tracer = t }
}

// WithSleep replaces time.Sleep for instrumentation delays.
func WithSleep(sleep func(time.Duration)) Option {
	return func(r *Runtime) { r.sleep = sleep }
}

// Runtime implements the scene API.
type Runtime struct {
	cfg        *config.Config
	ids        node.IDGenerator
	policy     node.Policy
	dispatcher callback.Dispatcher
	delays     *instrument.Table
	log        *trace.Log
	engine     *layout.Engine
	pipeline   layout.Pipeline
	lazy       lazy.Provider
	events     event.Queue
	clickable  map[*node.Node]bool
	nodes      map[int64]*node.Node

	logOut io.Writer
	vm     callback.VMContext
	tracer layout.Tracer
	sleep  func(time.Duration)
}

// New builds a runtime from cfg. A nil cfg uses config.Default. A configured
// API version must negotiate with this build.
func New(cfg *config.Config, opts ...Option) (*Runtime, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap("scene.New", errors.KindConfig, 0, err)
	}

	r := &Runtime{
		cfg:       cfg,
		clickable: make(map[*node.Node]bool),
		nodes:     make(map[int64]*node.Node),
	}
	for _, opt := range opts {
		opt(r)
	}

	// APIVersion trims the configured value and defaults to this build.
	if err := r.Negotiate(cfg.APIVersion()); err != nil {
		return nil, err
	}

	// Validate has already resolved these once.
	r.policy, _ = cfg.Policy()
	r.delays, _ = cfg.Delays()
	groups, _ := cfg.LogGroups()

	r.delays.Sleep = r.sleep

	r.log = trace.New(r.logOut)
	r.log.SetVerbose(cfg.Log.Verbose)
	for _, g := range groups {
		r.log.StartGroupedLog(g)
	}

	r.engine = &layout.Engine{
		Dispatcher: &r.dispatcher,
		Delays:     r.delays,
		Log:        r.log,
		Tracer:     r.tracer,
		VM:         r.vm,
	}
	r.lazy.Log = r.log
	return r, nil
}

// Config returns the configuration the runtime was built with.
func (r *Runtime) Config() *config.Config { return r.cfg }

// Log returns the trace sink.
func (r *Runtime) Log() *trace.Log { return r.log }

// Engine returns the layout engine, for hosts that run phases themselves.
func (r *Runtime) Engine() *layout.Engine { return r.engine }

// APIVersion returns the API version this build implements.
func (r *Runtime) APIVersion() string { return config.CurrentAPIVersion }

// Negotiate checks that a host built against hostVersion can use this
// runtime: the major versions must match and the host must not be newer.
func (r *Runtime) Negotiate(hostVersion string) error {
	const op = "scene.Negotiate"
	if !semver.IsValid(hostVersion) {
		return errors.Wrap(op, errors.KindConfig, 0, fmt.Errorf("%q is not a semantic version", hostVersion))
	}
	current := r.APIVersion()
	if semver.Major(hostVersion) != semver.Major(current) {
		return errors.Wrap(op, errors.KindConfig, 0,
			fmt.Errorf("%w: host %s, runtime %s (major differs)", ErrIncompatibleAPI, hostVersion, current))
	}
	if semver.Compare(hostVersion, current) > 0 {
		return errors.Wrap(op, errors.KindConfig, 0,
			fmt.Errorf("%w: host %s is newer than runtime %s", ErrIncompatibleAPI, hostVersion, current))
	}
	return nil
}

// SetCallbackMethod registers the VM entry point used for every custom
// phase. It can be set once.
func (r *Runtime) SetCallbackMethod(m callback.Method) error {
	return errors.Wrap("scene.SetCallbackMethod", errors.KindCallback, 0, r.dispatcher.SetMethod(m))
}

// CreateNode allocates a node with the next id. The create-phase delay for
// typ is applied first; a type outside the instrumentation table aborts the
// process.
func (r *Runtime) CreateNode(typ node.Type, customID int32, flags node.Flags) (*node.Node, error) {
	if flags&^allFlags != 0 {
		return nil, errors.Wrap("scene.CreateNode", errors.KindTree, 0, fmt.Errorf("%w: %s", ErrInvalidFlags, flags))
	}
	r.delays.Apply(instrument.PhaseCreate, typ)
	n := node.New(r.ids.Next(), typ, customID, flags)
	r.nodes[n.ID()] = n
	r.log.Event(trace.KindTree, "create %s flags=%s custom=%d", n, flags, customID)
	return n, nil
}

// Lookup returns a live node by id.
func (r *Runtime) Lookup(id int64) (*node.Node, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

// NodeCount returns the number of live nodes.
func (r *Runtime) NodeCount() int { return len(r.nodes) }

// DisposeNode disposes n alone and returns its detached children. Any range
// updater handle stored on n is released.
func (r *Runtime) DisposeNode(n *node.Node) []*node.Node {
	if n == nil || n.Disposed() {
		return nil
	}
	if p := n.Parent(); p != nil {
		r.pipeline.MarkDirty(p, node.DirtyMeasure)
	}
	orphans := n.Dispose()
	delete(r.nodes, n.ID())
	delete(r.clickable, n)
	r.log.Event(trace.KindTree, "dispose %s (%d orphans)", n, len(orphans))
	return orphans
}

// DisposeTree disposes n and every descendant.
func (r *Runtime) DisposeTree(n *node.Node) {
	if n == nil {
		return
	}
	for _, child := range n.Children() {
		r.DisposeTree(child)
	}
	r.DisposeNode(n)
}

func (r *Runtime) treeErr(op string, n *node.Node, err error) error {
	if err == nil {
		return nil
	}
	var id int64
	if n != nil {
		id = n.ID()
	}
	r.log.Event(trace.KindTree, "%s rejected: %v", op, err)
	return errors.Wrap(op, errors.KindTree, id, err)
}

func (r *Runtime) changed(parent *node.Node, op string, child *node.Node) {
	r.pipeline.MarkDirty(parent, node.DirtyMeasure)
	r.log.Event(trace.KindTree, "%s %s -> %s", op, child, parent)
}

// AddChild appends child to parent under the configured policy.
func (r *Runtime) AddChild(parent, child *node.Node) error {
	if err := r.policy.AddChild(parent, child); err != nil {
		return r.treeErr("scene.AddChild", child, err)
	}
	r.changed(parent, "add", child)
	return nil
}

// InsertChildAt inserts child at position, clamped to the child list.
func (r *Runtime) InsertChildAt(parent, child *node.Node, position int) error {
	if err := r.policy.InsertChildAt(parent, child, position); err != nil {
		return r.treeErr("scene.InsertChildAt", child, err)
	}
	r.changed(parent, "insert", child)
	return nil
}

// InsertChildAfter inserts child after sibling. A missing sibling follows
// the configured fallback.
func (r *Runtime) InsertChildAfter(parent, child, sibling *node.Node) error {
	if err := r.policy.InsertChildAfter(parent, child, sibling); err != nil {
		return r.treeErr("scene.InsertChildAfter", child, err)
	}
	r.changed(parent, "insert-after", child)
	return nil
}

// InsertChildBefore inserts child before sibling. A missing sibling follows
// the configured fallback.
func (r *Runtime) InsertChildBefore(parent, child, sibling *node.Node) error {
	if err := r.policy.InsertChildBefore(parent, child, sibling); err != nil {
		return r.treeErr("scene.InsertChildBefore", child, err)
	}
	r.changed(parent, "insert-before", child)
	return nil
}

// RemoveChild detaches child from parent. It reports whether child was
// present.
func (r *Runtime) RemoveChild(parent, child *node.Node) bool {
	if parent == nil || !parent.RemoveChild(child) {
		return false
	}
	r.changed(parent, "remove", child)
	return true
}

// SetAttribute stores a component property and schedules a remeasure.
func (r *Runtime) SetAttribute(n *node.Node, name, value string) {
	n.SetAttribute(name, value)
	r.pipeline.MarkDirty(n, node.DirtyMeasure)
}

// ResetAttribute removes a component property and schedules a remeasure.
func (r *Runtime) ResetAttribute(n *node.Node, name string) {
	n.ResetAttribute(name)
	r.pipeline.MarkDirty(n, node.DirtyMeasure)
}
