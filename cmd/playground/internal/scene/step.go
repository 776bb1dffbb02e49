package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is a step operation.
type Op string

const (
	// OpFocus requests focus on an element.
	OpFocus Op = "focus"
	// OpTab moves focus to the next focusable element.
	OpTab Op = "tab"
	// OpSet writes a view-model flag.
	OpSet Op = "set"
	// OpDetach removes an element's behaviors and keeps them for OpAttach.
	OpDetach Op = "detach"
	// OpAttach reinstalls behaviors removed by OpDetach.
	OpAttach Op = "attach"
	// OpContext toggles a local empty data context on an element.
	OpContext Op = "context"
)

// Step is one parsed scene step.
type Step struct {
	Op Op
	// Target is the element name, or the flag name for OpSet.
	Target string
	// Value is the flag value for OpSet.
	Value bool
}

func (s Step) String() string {
	switch s.Op {
	case OpTab:
		return string(s.Op)
	case OpSet:
		return fmt.Sprintf("set %s=%t", s.Target, s.Value)
	default:
		return fmt.Sprintf("%s %s", s.Op, s.Target)
	}
}

// ParseStep parses a step line such as "focus text" or "set Flag=true".
func ParseStep(line string) (Step, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Step{}, fmt.Errorf("empty step")
	}

	op := Op(strings.ToLower(fields[0]))
	args := fields[1:]
	switch op {
	case OpTab:
		if len(args) != 0 {
			return Step{}, fmt.Errorf("%q: tab takes no arguments", line)
		}
		return Step{Op: op}, nil

	case OpSet:
		if len(args) != 1 {
			return Step{}, fmt.Errorf("%q: usage is set <flag>=<bool>", line)
		}
		name, raw, ok := strings.Cut(args[0], "=")
		if !ok || name == "" {
			return Step{}, fmt.Errorf("%q: usage is set <flag>=<bool>", line)
		}
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return Step{}, fmt.Errorf("%q: invalid flag value %q", line, raw)
		}
		return Step{Op: op, Target: name, Value: value}, nil

	case OpFocus, OpDetach, OpAttach, OpContext:
		if len(args) != 1 {
			return Step{}, fmt.Errorf("%q: usage is %s <element>", line, op)
		}
		return Step{Op: op, Target: args[0]}, nil
	}
	return Step{}, fmt.Errorf("%q: unknown step %q", line, fields[0])
}

// ParseSteps parses every line and fails on the first invalid one.
func ParseSteps(lines []string) ([]Step, error) {
	steps := make([]Step, 0, len(lines))
	for i, line := range lines {
		step, err := ParseStep(line)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}
