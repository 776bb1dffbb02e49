package scene

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/go-drift/behaviors/cmd/playground/internal/config"
	"github.com/go-drift/behaviors/pkg/element"
)

// Behavior types a scene can declare.
const (
	BehaviorFocus     = "focus"
	BehaviorSelectAll = "selectall"
)

// Validate checks the element tree, behavior declarations and steps of
// cfg and returns every problem found, combined with multierr.
func Validate(cfg *config.Scene) error {
	v := &validator{flags: cfg.Flags, kinds: map[string]element.Kind{}, behaviors: map[string]bool{}}
	v.element(cfg.Window, true)
	for i, line := range cfg.Steps {
		v.step(i+1, line)
	}
	return v.err
}

type validator struct {
	flags     map[string]bool
	kinds     map[string]element.Kind
	behaviors map[string]bool
	err       error
}

func (v *validator) fail(format string, args ...any) {
	v.err = multierr.Append(v.err, fmt.Errorf(format, args...))
}

func (v *validator) element(el config.ElementConfig, root bool) {
	kind := element.Kind(el.Kind)
	if root && kind == "" {
		kind = element.KindWindow
	}

	switch {
	case el.Name == "":
		v.fail("%s element has no name", describeKind(kind))
	case v.kinds[el.Name] != "":
		v.fail("duplicate element name %q", el.Name)
	default:
		v.kinds[el.Name] = kind
	}

	switch {
	case root && kind != element.KindWindow:
		v.fail("root element %q must be a window, not %q", el.Name, kind)
	case !root && kind == element.KindWindow:
		v.fail("element %q: a window can only be the root", el.Name)
	case !root && kind != element.KindPanel && kind != element.KindButton && kind != element.KindTextBox:
		v.fail("element %q has unknown kind %q", el.Name, kind)
	}

	if len(el.Children) > 0 && kind != element.KindWindow && kind != element.KindPanel {
		v.fail("element %q: a %s cannot have children", el.Name, kind)
	}

	for i, b := range el.Behaviors {
		switch b.Type {
		case BehaviorFocus:
			if _, ok := v.flags[b.Path]; b.Path != "" && !ok {
				v.fail("element %q behavior %d: unknown flag %q", el.Name, i+1, b.Path)
			}
		case BehaviorSelectAll:
		default:
			v.fail("element %q behavior %d: unknown type %q", el.Name, i+1, b.Type)
		}
	}
	if len(el.Behaviors) > 0 && el.Name != "" {
		v.behaviors[el.Name] = true
	}

	for _, child := range el.Children {
		v.element(child, false)
	}
}

func (v *validator) step(n int, line string) {
	step, err := ParseStep(line)
	if err != nil {
		v.fail("step %d: %w", n, err)
		return
	}
	switch step.Op {
	case OpSet:
		if _, ok := v.flags[step.Target]; !ok {
			v.fail("step %d: unknown flag %q", n, step.Target)
		}
	case OpFocus, OpContext:
		if v.kinds[step.Target] == "" {
			v.fail("step %d: unknown element %q", n, step.Target)
		}
	case OpDetach, OpAttach:
		if v.kinds[step.Target] == "" {
			v.fail("step %d: unknown element %q", n, step.Target)
		} else if !v.behaviors[step.Target] {
			v.fail("step %d: element %q declares no behaviors", n, step.Target)
		}
	}
}

func describeKind(kind element.Kind) string {
	if kind == "" {
		return "an untyped"
	}
	return "a " + string(kind)
}
