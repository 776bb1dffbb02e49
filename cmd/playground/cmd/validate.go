package cmd

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/go-drift/behaviors/cmd/playground/internal/config"
	"github.com/go-drift/behaviors/cmd/playground/internal/scene"
	"github.com/go-drift/behaviors/pkg/errors"
)

func init() {
	RegisterCommand(&Command{
		Name:  "validate",
		Short: "Check a scene for problems",
		Long: `Check a scene's element tree, behavior declarations and steps,
and report every problem found.`,
		Usage: "playground validate [scene.yaml]",
		Run:   runValidate,
	})
}

func runValidate(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("too many arguments\n\nUsage: playground validate [scene.yaml]")
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

	problems := multierr.Errors(scene.Validate(resolved.Scene))
	if len(problems) == 0 {
		fmt.Fprintf(stdout, "%s: ok\n", resolved.Scene.Name)
		return nil
	}
	fmt.Fprintf(stdout, "%s:\n", resolved.Scene.Name)
	for _, p := range problems {
		fmt.Fprintf(stdout, "  - %v\n", p)
	}
	return fmt.Errorf("%d problem(s) found", len(problems))
}
