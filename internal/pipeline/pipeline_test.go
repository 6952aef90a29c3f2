package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/wikivault/internal/model"
)

// recordingStep is a test step that records its execution and optionally
// fails.
type recordingStep struct {
	name     string
	err      error
	executed *[]string
}

func (s *recordingStep) Name() string { return s.name }

func (s *recordingStep) Do(_ context.Context, _ *model.PageResult) error {
	*s.executed = append(*s.executed, s.name)
	return s.err
}

// newTestResult returns a minimal page result for pipeline tests.
func newTestResult() *model.PageResult {
	return model.NewPageResult(&model.Page{Title: "Test", Text: "body"})
}

// TestPipelineExecutesInOrder tests that steps run in the order added.
func TestPipelineExecutesInOrder(t *testing.T) {
	t.Parallel()

	var executed []string
	p := New()
	p.AddSteps(
		&recordingStep{name: "one", executed: &executed},
		&recordingStep{name: "two", executed: &executed},
		&recordingStep{name: "three", executed: &executed},
	)

	if err := p.Execute(context.Background(), newTestResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(executed) != 3 || executed[0] != "one" || executed[1] != "two" || executed[2] != "three" {
		t.Errorf("execution order = %v", executed)
	}
}

// TestPipelineStopsOnError tests the default stop-on-error behavior.
func TestPipelineStopsOnError(t *testing.T) {
	t.Parallel()

	var executed []string
	stepErr := errors.New("boom")
	p := New()
	p.AddSteps(
		&recordingStep{name: "one", executed: &executed},
		&recordingStep{name: "two", err: stepErr, executed: &executed},
		&recordingStep{name: "three", executed: &executed},
	)

	err := p.Execute(context.Background(), newTestResult())
	if !errors.Is(err, stepErr) {
		t.Fatalf("expected step error, got %v", err)
	}
	if len(executed) != 2 {
		t.Errorf("executed = %v, expected stop after failure", executed)
	}
}

// TestPipelineContinueOnError tests that WithContinueOnError keeps
// executing subsequent steps.
func TestPipelineContinueOnError(t *testing.T) {
	t.Parallel()

	var executed []string
	p := New(WithContinueOnError(true))
	p.AddSteps(
		&recordingStep{name: "one", err: errors.New("boom"), executed: &executed},
		&recordingStep{name: "two", executed: &executed},
	)

	if err := p.Execute(context.Background(), newTestResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(executed) != 2 {
		t.Errorf("executed = %v, expected both steps", executed)
	}
}

// TestPipelineCancellation tests that a cancelled context stops execution
// before the next step.
func TestPipelineCancellation(t *testing.T) {
	t.Parallel()

	var executed []string
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New()
	p.AddStep(&recordingStep{name: "one", executed: &executed})

	err := p.Execute(ctx, newTestResult())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(executed) != 0 {
		t.Errorf("executed = %v, expected none", executed)
	}
}

// TestStepNames tests step introspection.
func TestStepNames(t *testing.T) {
	t.Parallel()

	p := DefaultPipeline(Settings{ImageDir: "images"})
	expected := []string{"normalize", "infobox", "templates", "categories", "body", "render"}

	names := p.StepNames()
	if p.StepCount() != len(expected) {
		t.Fatalf("step count = %d, expected %d", p.StepCount(), len(expected))
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("step %d = %q, expected %q", i, names[i], name)
		}
	}
}
