package scene

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/go-drift/behaviors/cmd/playground/internal/config"
	"github.com/go-drift/behaviors/pkg/element"
	"github.com/go-drift/behaviors/pkg/errors"
	"github.com/go-drift/behaviors/pkg/focus"
)

func mustParse(t *testing.T, yaml string) *config.Scene {
	t.Helper()
	scene, err := config.Parse([]byte(yaml))
	require.NoError(t, err)
	return scene
}

func TestParseStep(t *testing.T) {
	tests := []struct {
		line    string
		want    Step
		wantErr string
	}{
		{line: "tab", want: Step{Op: OpTab}},
		{line: "  focus   text ", want: Step{Op: OpFocus, Target: "text"}},
		{line: "set Flag=true", want: Step{Op: OpSet, Target: "Flag", Value: true}},
		{line: "SET Flag=0", want: Step{Op: OpSet, Target: "Flag"}},
		{line: "detach b", want: Step{Op: OpDetach, Target: "b"}},
		{line: "attach b", want: Step{Op: OpAttach, Target: "b"}},
		{line: "context b", want: Step{Op: OpContext, Target: "b"}},
		{line: "", wantErr: "empty step"},
		{line: "tab 2", wantErr: "no arguments"},
		{line: "set Flag", wantErr: "usage is set"},
		{line: "set =true", wantErr: "usage is set"},
		{line: "set Flag=yes", wantErr: "invalid flag value"},
		{line: "focus", wantErr: "usage is focus"},
		{line: "jump b", wantErr: "unknown step"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseStep(tt.line)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "tab", Step{Op: OpTab}.String())
	assert.Equal(t, "set A=false", Step{Op: OpSet, Target: "A"}.String())
	assert.Equal(t, "focus text", Step{Op: OpFocus, Target: "text"}.String())
}

func TestParseSteps_ReportsLine(t *testing.T) {
	_, err := ParseSteps([]string{"tab", "hop"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 2")
}

func TestValidate_Default(t *testing.T) {
	assert.NoError(t, Validate(config.Default()))
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	scene := mustParse(t, `
flags: {A: true}
window:
  name: w
  children:
    - name: b
      kind: button
      behaviors:
        - type: focus
          path: Missing
        - type: hover
      children:
        - name: x
          kind: panel
    - name: b
      kind: slider
steps:
  - focus nobody
  - set A=maybe
  - detach x
  - jump
`)
	problems := multierr.Errors(Validate(scene))
	require.Len(t, problems, 9)
	assert.Contains(t, problems[0].Error(), `a button cannot have children`)
	assert.Contains(t, problems[1].Error(), `unknown flag "Missing"`)
	assert.Contains(t, problems[2].Error(), `unknown type "hover"`)
	assert.Contains(t, problems[3].Error(), `duplicate element name "b"`)
	assert.Contains(t, problems[4].Error(), `unknown kind "slider"`)
	assert.Contains(t, problems[5].Error(), `unknown element "nobody"`)
	assert.Contains(t, problems[6].Error(), `invalid flag value`)
	assert.Contains(t, problems[7].Error(), `"x" declares no behaviors`)
	assert.Contains(t, problems[8].Error(), `unknown step`)
}

func TestValidate_Root(t *testing.T) {
	scene := mustParse(t, `
window:
  name: root
  kind: panel
  children:
    - kind: window
`)
	problems := multierr.Errors(Validate(scene))
	require.Len(t, problems, 3)
	assert.Contains(t, problems[0].Error(), "must be a window")
	assert.Contains(t, problems[1].Error(), "has no name")
	assert.Contains(t, problems[2].Error(), "can only be the root")
}

func TestBuild_InvalidScene(t *testing.T) {
	_, err := Build(mustParse(t, "window: {name: w, kind: button}"), nil)
	require.Error(t, err)
	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, errors.KindScene, e.Kind)
}

func TestBuild_DefaultScene(t *testing.T) {
	p, err := Build(config.Default(), nil)
	require.NoError(t, err)

	text, ok := p.Element("text")
	require.True(t, ok)
	assert.Same(t, text, p.Window.FocusedElement())

	c := text.Base().Behaviors()
	require.NotNil(t, c)
	require.Len(t, c.Behaviors(), 2)
	assert.IsType(t, &focus.SelectAllBehavior{}, c.Behaviors()[0])
	assert.IsType(t, &focus.Behavior{}, c.Behaviors()[1])

	// Select-all is declared first, so it sees the initial focus.
	box, ok := text.(*element.TextBox)
	require.True(t, ok)
	assert.Equal(t, "Hello, behaviors", box.SelectedText())
	assert.Equal(t, 1, c.Behaviors()[0].(*focus.SelectAllBehavior).Selections)

	button, _ := p.Element("button")
	assert.Len(t, button.Base().Behaviors().Behaviors(), 1)
	body, _ := p.Element("body")
	assert.Nil(t, body.Base().Behaviors())
}

func TestRun_DefaultScene(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := config.Default()
	p, err := Build(cfg, zap.New(core))
	require.NoError(t, err)
	steps, err := ParseSteps(cfg.Steps)
	require.NoError(t, err)

	states, err := p.Run(steps)
	require.NoError(t, err)

	type row struct {
		step    string
		focused string
		button  bool
		text    bool
	}
	want := []row{
		{"initial", "text", false, true},
		{"set ButtonHasFocus=true", "button", true, false},
		{"tab", "text", false, true},
		{"focus button", "button", true, false},
		{"detach text", "button", true, false},
		// Detached: the flag no longer drives the text box.
		{"set TextHasFocus=true", "button", true, true},
		{"attach text", "text", false, true},
		{"context text", "text", false, true},
		// Cut off from the view model, losing focus is not written back.
		{"tab", "button", true, true},
		{"context text", "text", false, true},
	}
	require.Len(t, states, len(want))
	for i, w := range want {
		got := row{states[i].Step, states[i].Focused, states[i].Flags["ButtonHasFocus"], states[i].Flags["TextHasFocus"]}
		assert.Equal(t, w, got, "state %d", i)
	}

	assert.Equal(t, len(want), logs.FilterMessage("step").Len())
	assert.Positive(t, logs.FilterMessage("flag changed").Len())
	assert.Equal(t, 2, logs.FilterMessage("behaviors installed").Len())
}

func TestRun_StopsOnFailedStep(t *testing.T) {
	p, err := Build(config.Default(), nil)
	require.NoError(t, err)

	states, err := p.Run([]Step{{Op: OpTab}, {Op: OpAttach, Target: "text"}, {Op: OpTab}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no detached behaviors")
	assert.Len(t, states, 2)
}

func TestApply_Errors(t *testing.T) {
	p, err := Build(config.Default(), nil)
	require.NoError(t, err)

	tests := []struct {
		step Step
		want string
	}{
		{Step{Op: OpSet, Target: "Nope"}, `unknown flag "Nope"`},
		{Step{Op: OpFocus, Target: "ghost"}, `unknown element "ghost"`},
		{Step{Op: OpDetach, Target: "body"}, "no behaviors to detach"},
		{Step{Op: "hop", Target: "body"}, "unsupported step"},
	}
	for _, tt := range tests {
		t.Run(tt.step.String(), func(t *testing.T) {
			err := p.Apply(tt.step)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestApply_FocusRefusedIsNotAnError(t *testing.T) {
	p, err := Build(config.Default(), nil)
	require.NoError(t, err)
	require.NoError(t, p.Apply(Step{Op: OpFocus, Target: "body"}))
	assert.Equal(t, "text", p.State("").Focused)
}

type countingHandler struct {
	errors, panics, violations int
}

func (h *countingHandler) HandleError(*errors.Error)                 { h.errors++ }
func (h *countingHandler) HandlePanic(*errors.PanicError)            { h.panics++ }
func (h *countingHandler) HandleViolation(*errors.ContractViolation) { h.violations++ }

func TestRun_ViolationReportedOnce(t *testing.T) {
	h := &countingHandler{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })

	p, err := Build(config.Default(), nil)
	require.NoError(t, err)
	button, _ := p.Element("button")
	// Reattaching the button's live controller to the text box shares it
	// between two hosts.
	p.detached["text"] = button.Base().Behaviors()

	states, err := p.Run([]Step{{Op: OpAttach, Target: "text"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run aborted")
	var v *errors.ContractViolation
	require.True(t, stderrors.As(err, &v))
	assert.Contains(t, v.Message, "cannot be shared")
	assert.Len(t, states, 1)

	assert.Equal(t, 1, h.violations)
	assert.Zero(t, h.panics)
	assert.Zero(t, h.errors)
}
