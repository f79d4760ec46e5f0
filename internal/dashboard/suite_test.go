package dashboard

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunNonTTY_When_AllStepsSucceed(t *testing.T) {
	t.Parallel()

	specs := []StepSpec{
		{Group: "env", Name: "create", Exe: "sh", Args: []string{"-c", "echo created"}},
		{Group: "env", Name: "install", Exe: "sh", Args: []string{"-c", "echo installed"}},
	}

	var out bytes.Buffer
	code := RunNonTTY(context.Background(), specs, &out)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "created")
	assert.Contains(t, out.String(), "installed")
	assert.Contains(t, out.String(), "Summary:")
}

func TestRunNonTTY_When_StepFails_RemainingSkipped(t *testing.T) {
	t.Parallel()

	specs := []StepSpec{
		{Group: "env", Name: "create", Exe: "false"},
		{Group: "env", Name: "install", Exe: "sh", Args: []string{"-c", "echo should-not-run"}},
	}

	var out bytes.Buffer
	code := RunNonTTY(context.Background(), specs, &out)

	assert.Equal(t, 1, code)
	assert.NotContains(t, out.String(), "should-not-run")
	assert.Contains(t, out.String(), "✗")
	assert.Contains(t, out.String(), "1 step(s) failed")
}

func TestStartSteps_When_Sequential_PreservesOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	specs := []StepSpec{
		{Group: "env", Name: "first", Dir: dir, Exe: "sh", Args: []string{"-c", "echo one > marker"}},
		{Group: "env", Name: "second", Dir: dir, Exe: "sh", Args: []string{"-c", "cat marker"}},
	}

	steps, updates := StartSteps(context.Background(), specs)
	for update := range updates {
		if update.Line != "" {
			steps[update.Index].appendLine(update.Line)
		}
	}

	require.Equal(t, StepSuccess, steps[0].Status)
	require.Equal(t, StepSuccess, steps[1].Status)
	assert.Equal(t, "one", JoinOutput(steps[1]))
}

func TestSuite_When_NoSteps_RunIsNoOp(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := NewSuite("setup").RunWithOutput(context.Background(), &out)

	assert.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestSuite_When_StepFails_ReturnsSuiteError(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	suite := NewSuite("setup").AddStep("env", "create", "", nil, "false")

	err := suite.RunWithOutput(context.Background(), &out)

	var suiteErr *SuiteError
	require.ErrorAs(t, err, &suiteErr)
	assert.Equal(t, 1, suiteErr.ExitCode)
}
