// Package scene builds an element tree from a scene description and runs
// scripted steps against it.
package scene

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/behaviors/cmd/playground/internal/config"
	"github.com/go-drift/behaviors/pkg/behavior"
	"github.com/go-drift/behaviors/pkg/binding"
	"github.com/go-drift/behaviors/pkg/element"
	"github.com/go-drift/behaviors/pkg/errors"
	"github.com/go-drift/behaviors/pkg/focus"
)

// State is a snapshot taken after a step.
type State struct {
	Step    string
	Focused string
	Flags   map[string]bool
}

// Playground is a built scene.
type Playground struct {
	Window *element.Window
	// Flags is the window's data context: one observable bool per flag.
	Flags binding.Map

	logger   *zap.Logger
	detached map[string]*behavior.Controller
}

type pending struct {
	node      element.Node
	behaviors []config.BehaviorConfig
}

// Build validates cfg and builds its element tree. Behaviors are installed
// once the whole tree is in place, in tree order.
func Build(cfg *config.Scene, logger *zap.Logger) (*Playground, error) {
	if err := Validate(cfg); err != nil {
		return nil, &errors.Error{Op: "scene.Build", Kind: errors.KindScene, Err: err, Timestamp: time.Now()}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Playground{
		Window:   element.NewWindow(cfg.Window.Name),
		Flags:    binding.Map{},
		logger:   logger,
		detached: map[string]*behavior.Controller{},
	}
	for _, name := range slices.Sorted(maps.Keys(cfg.Flags)) {
		obs := binding.NewObservable(cfg.Flags[name])
		obs.AddListener(func(v bool) {
			logger.Debug("flag changed", zap.String("flag", name), zap.Bool("value", v))
		})
		p.Flags[name] = obs
	}

	var queue []pending
	if len(cfg.Window.Behaviors) > 0 {
		queue = append(queue, pending{p.Window, cfg.Window.Behaviors})
	}
	for _, child := range cfg.Window.Children {
		queue = p.build(&p.Window.Element, child, queue)
	}
	p.Window.SetDataContext(p.Flags)

	for _, item := range queue {
		p.install(item)
	}
	return p, nil
}

func (p *Playground) build(parent *element.Element, cfg config.ElementConfig, queue []pending) []pending {
	var node element.Node
	switch element.Kind(cfg.Kind) {
	case element.KindButton:
		node = element.NewButton(cfg.Name)
	case element.KindTextBox:
		t := element.NewTextBox(cfg.Name)
		t.Text = cfg.Text
		node = t
	default:
		node = element.NewPanel(cfg.Name)
	}
	parent.AppendChild(node)
	if len(cfg.Behaviors) > 0 {
		queue = append(queue, pending{node, cfg.Behaviors})
	}
	for _, child := range cfg.Children {
		queue = p.build(node.Base(), child, queue)
	}
	return queue
}

func (p *Playground) install(item pending) {
	items := make([]behavior.Behavior, 0, len(item.behaviors))
	for _, b := range item.behaviors {
		switch b.Type {
		case BehaviorFocus:
			items = append(items, focus.NewBehavior(b.Path))
		case BehaviorSelectAll:
			items = append(items, focus.NewSelectAllBehavior())
		}
	}
	c := behavior.NewController(items...)
	item.node.Base().SetBehaviors(c)

	attached := 0
	for _, b := range c.Behaviors() {
		if b.AttachedHost() != nil {
			attached++
		}
	}
	p.logger.Debug("behaviors installed",
		zap.Stringer("element", item.node.Base()),
		zap.Int("declared", len(items)),
		zap.Int("attached", attached),
	)
}

// Element returns the element called name.
func (p *Playground) Element(name string) (element.Node, bool) {
	n := p.Window.Find(name)
	return n, n != nil
}

// Flag returns the current value of a view-model flag.
func (p *Playground) Flag(name string) (bool, bool) {
	obs, ok := binding.Lookup[bool](p.Flags, name)
	if !ok {
		return false, false
	}
	return obs.Value(), true
}

// State returns a snapshot labelled with step.
func (p *Playground) State(step string) State {
	s := State{Step: step, Flags: make(map[string]bool, len(p.Flags))}
	if n := p.Window.FocusedElement(); n != nil {
		s.Focused = n.Base().Name
	}
	for name := range p.Flags {
		s.Flags[name], _ = p.Flag(name)
	}
	return s
}

// Apply runs one step.
func (p *Playground) Apply(step Step) error {
	const op = "scene.Apply"
	fail := func(format string, args ...any) error {
		return &errors.Error{Op: op, Kind: errors.KindScene, Err: fmt.Errorf(format, args...), Timestamp: time.Now()}
	}

	if step.Op == OpTab {
		if !p.Window.MoveFocus(1) {
			p.logger.Debug("nothing to focus")
		}
		return nil
	}
	if step.Op == OpSet {
		obs, ok := binding.Lookup[bool](p.Flags, step.Target)
		if !ok {
			return fail("unknown flag %q", step.Target)
		}
		obs.Set(step.Value)
		return nil
	}

	node, ok := p.Element(step.Target)
	if !ok {
		return fail("unknown element %q", step.Target)
	}
	el := node.Base()
	switch step.Op {
	case OpFocus:
		if !node.Focus() {
			p.logger.Debug("focus refused", zap.Stringer("element", el))
		}
	case OpDetach:
		c := el.Behaviors()
		if c == nil {
			return fail("%s has no behaviors to detach", el)
		}
		el.SetBehaviors(nil)
		p.detached[el.Name] = c
	case OpAttach:
		c, ok := p.detached[el.Name]
		if !ok {
			return fail("%s has no detached behaviors", el)
		}
		delete(p.detached, el.Name)
		el.SetBehaviors(c)
	case OpContext:
		if el.HasLocalDataContext() {
			el.ClearDataContext()
		} else {
			el.SetDataContext(nil)
		}
		p.logger.Debug("data context",
			zap.Stringer("element", el),
			zap.Bool("local", el.HasLocalDataContext()),
		)
	default:
		return fail("unsupported step %q", step.Op)
	}
	return nil
}

// Run applies steps in order and returns the initial state followed by the
// state after each step. A contract violation aborts the run.
func (p *Playground) Run(steps []Step) (states []State, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		// Violations were reported when raised.
		if v, ok := errors.AsViolation(r); ok {
			err = fmt.Errorf("run aborted: %w", v)
			return
		}
		errors.ReportPanic(&errors.PanicError{
			Op:         "scene.Run",
			Value:      r,
			StackTrace: errors.CaptureStack(),
			Timestamp:  time.Now(),
		})
		err = fmt.Errorf("run aborted: %v", r)
	}()

	states = append(states, p.State("initial"))
	p.trace(states[0])
	for _, step := range steps {
		if err := p.Apply(step); err != nil {
			return states, err
		}
		s := p.State(step.String())
		states = append(states, s)
		p.trace(s)
	}
	return states, nil
}

func (p *Playground) trace(s State) {
	fields := []zap.Field{zap.String("step", s.Step), zap.String("focused", s.Focused)}
	for _, name := range slices.Sorted(maps.Keys(s.Flags)) {
		fields = append(fields, zap.Bool(name, s.Flags[name]))
	}
	p.logger.Info("step", fields...)
}
