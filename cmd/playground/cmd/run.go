package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-drift/behaviors/cmd/playground/internal/config"
	"github.com/go-drift/behaviors/cmd/playground/internal/scene"
	"github.com/go-drift/behaviors/pkg/errors"
)

func init() {
	RegisterCommand(&Command{
		Name:  "run",
		Short: "Run a scene",
		Long: `Build the scene's element tree, install the declared behaviors and
run each step, tracing the focused element and the view-model flags.

Without a path, scene.yaml in the current directory is used, and the
built-in two-control scene when that file does not exist.

Steps:
  focus <element>     request focus on an element
  tab                 move focus to the next element
  set <flag>=<bool>   write a view-model flag
  detach <element>    remove the element's behaviors
  attach <element>    put detached behaviors back
  context <element>   toggle a local empty data context on the element`,
		Usage: "playground run [scene.yaml]",
		Run:   runScene,
	})
}

func runScene(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("too many arguments\n\nUsage: playground run [scene.yaml]")
	}
	var path string
	if len(args) == 1 {
		path = args[0]
	}

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	resolved, err := config.Resolve(path)
	if err != nil {
		return report("config.Resolve", errors.KindConfig, err)
	}

	p, err := scene.Build(resolved.Scene, logger.Named(resolved.Scene.Name))
	if err != nil {
		return report("scene.Build", errors.KindScene, err)
	}
	steps, err := scene.ParseSteps(resolved.Scene.Steps)
	if err != nil {
		return report("scene.ParseSteps", errors.KindScene, err)
	}

	states, err := p.Run(steps)
	printStates(resolved.Scene.Name, states)
	return report("scene.Run", errors.KindScene, err)
}

func printStates(name string, states []scene.State) {
	fmt.Fprintf(stdout, "Scene: %s\n\n", name)
	if len(states) == 0 {
		return
	}
	flags := slices.Sorted(maps.Keys(states[0].Flags))
	fmt.Fprintf(stdout, "  %-24s %-10s %s\n", "STEP", "FOCUSED", strings.Join(flags, " "))
	for _, s := range states {
		values := make([]string, len(flags))
		for i, f := range flags {
			values[i] = fmt.Sprintf("%-*t", len(f), s.Flags[f])
		}
		focused := s.Focused
		if focused == "" {
			focused = "-"
		}
		fmt.Fprintf(stdout, "  %-24s %-10s %s\n", s.Step, focused, strings.Join(values, " "))
	}
}
