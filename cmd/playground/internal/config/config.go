// Package config loads playground scene files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"
)

// FileName is the scene file looked up by LoadOptional.
const FileName = "scene.yaml"

// Scene is a playground scene: view-model flags, an element tree with
// declared behaviors, and the steps to run against it.
type Scene struct {
	Name   string          `yaml:"name,omitempty"`
	Flags  map[string]bool `yaml:"flags,omitempty"`
	Window ElementConfig   `yaml:"window"`
	Steps  []string        `yaml:"steps,omitempty"`
}

// ElementConfig describes one element and its subtree.
type ElementConfig struct {
	Name      string           `yaml:"name"`
	Kind      string           `yaml:"kind,omitempty"`
	Text      string           `yaml:"text,omitempty"`
	Behaviors []BehaviorConfig `yaml:"behaviors,omitempty"`
	Children  []ElementConfig  `yaml:"children,omitempty"`
}

// BehaviorConfig declares a behavior on an element.
type BehaviorConfig struct {
	Type string `yaml:"type"`
	// Path names the view-model flag a focus behavior binds to.
	Path string `yaml:"path,omitempty"`
}

// Resolved is a loaded scene with defaults applied.
type Resolved struct {
	Path  string
	Scene *Scene
}

// DefaultScene is the two-control window used when no scene file is given.
const DefaultScene = `name: extensions-playground
flags:
  ButtonHasFocus: false
  TextHasFocus: true
window:
  name: main
  children:
    - name: body
      kind: panel
      children:
        - name: button
          kind: button
          behaviors:
            - type: focus
              path: ButtonHasFocus
        - name: text
          kind: textbox
          text: Hello, behaviors
          behaviors:
            - type: selectall
            - type: focus
              path: TextHasFocus
steps:
  - set ButtonHasFocus=true
  - tab
  - focus button
  - detach text
  - set TextHasFocus=true
  - attach text
  - context text
  - tab
  - context text
`

// Parse decodes a scene from YAML.
func Parse(data []byte) (*Scene, error) {
	var scene Scene
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	return &scene, nil
}

// Default returns the built-in scene.
func Default() *Scene {
	scene, err := Parse([]byte(DefaultScene))
	if err != nil {
		panic(err)
	}
	return scene
}

// Load reads the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	scene, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scene, nil
}

// LoadOptional reads scene.yaml from dir if present, and the built-in scene
// otherwise.
func LoadOptional(dir string) (*Scene, error) {
	scene, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return scene, err
}

// Resolve loads the scene at path, or scene.yaml in the current directory
// when path is empty, and fills in defaults. An unnamed scene is named
// after the enclosing Go module, or after its file.
func Resolve(path string) (*Resolved, error) {
	var (
		scene *Scene
		err   error
	)
	if path == "" {
		dir, werr := os.Getwd()
		if werr != nil {
			return nil, werr
		}
		scene, err = LoadOptional(dir)
		path = filepath.Join(dir, FileName)
	} else {
		scene, err = Load(path)
	}
	if err != nil {
		return nil, err
	}

	scene.Name = strings.TrimSpace(scene.Name)
	if scene.Name == "" {
		scene.Name = defaultSceneName(path)
	}
	if scene.Window.Kind == "" {
		scene.Window.Kind = "window"
	}
	if scene.Flags == nil {
		scene.Flags = map[string]bool{}
	}
	return &Resolved{Path: path, Scene: scene}, nil
}

// FindModuleRoot walks up from dir to the directory holding go.mod.
func FindModuleRoot(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultSceneName(scenePath string) string {
	base := strings.TrimSuffix(filepath.Base(scenePath), filepath.Ext(scenePath))

	dir, err := filepath.Abs(filepath.Dir(scenePath))
	if err != nil {
		return base
	}
	root, err := FindModuleRoot(dir)
	if err != nil {
		return base
	}
	modPath, err := modulePath(root)
	if err != nil {
		return base
	}
	modName, _, ok := module.SplitPathVersion(modPath)
	if !ok {
		return base
	}
	parts := strings.Split(modName, "/")
	return parts[len(parts)-1] + "/" + base
}
