package stategraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewState_Defaults tests fresh state initialization.
func TestNewState_Defaults(t *testing.T) {
	s := NewState("wf")

	assert.Equal(t, "wf", s.WorkflowID)
	assert.NotEmpty(t, s.RunID)
	assert.Zero(t, s.Iteration)
	assert.Empty(t, s.Data)
	assert.Empty(t, s.Errors)
	assert.Empty(t, s.Warnings)
	assert.False(t, s.Timestamp.IsZero())
}

// TestNewState_UniqueRunIDs tests run IDs are not reused.
func TestNewState_UniqueRunIDs(t *testing.T) {
	a := NewState("wf")
	b := NewState("wf")
	assert.NotEqual(t, a.RunID, b.RunID)
}

// TestState_SetData_DoesNotMutateOriginal tests copy-on-write semantics.
func TestState_SetData_DoesNotMutateOriginal(t *testing.T) {
	s1 := NewState("wf").SetData("a", 1)
	s2 := s1.SetData("b", 2)

	assert.Equal(t, 1, s1.GetData("a", nil))
	assert.Nil(t, s1.GetData("b", nil))
	assert.Equal(t, 2, s2.GetData("b", nil))
}

// TestState_SetData_NoAliasing tests the derived state shares no map
// storage with its parent.
func TestState_SetData_NoAliasing(t *testing.T) {
	s1 := NewState("wf").SetData("a", 1)
	s2 := s1.SetData("a", 99)

	s2.Data["a"] = -1 // direct mutation must not leak back
	assert.Equal(t, 1, s1.GetData("a", nil))
}

// TestState_MergeData tests shallow merge semantics.
func TestState_MergeData(t *testing.T) {
	s := NewState("wf").SetData("keep", "old").SetData("replace", "old")

	merged := s.MergeData(map[string]any{"replace": "new", "added": true})

	assert.Equal(t, "old", merged.GetData("keep", nil))
	assert.Equal(t, "new", merged.GetData("replace", nil))
	assert.Equal(t, true, merged.GetData("added", nil))
	assert.Equal(t, "old", s.GetData("replace", nil))
}

// TestState_GetData_Default tests the default is returned for absent keys.
func TestState_GetData_Default(t *testing.T) {
	s := NewState("wf")
	assert.Equal(t, 42, s.GetData("missing", 42))
}

// TestState_AddError tests error accumulation preserves order.
func TestState_AddError(t *testing.T) {
	s := NewState("wf").AddError("first").AddError("second")

	require.Len(t, s.Errors, 2)
	assert.Equal(t, []string{"first", "second"}, s.Errors)
	assert.True(t, s.HasErrors())
}

// TestState_AddWarning tests warnings are a separate channel.
func TestState_AddWarning(t *testing.T) {
	s := NewState("wf").AddWarning("heads up")

	assert.True(t, s.HasWarnings())
	assert.False(t, s.HasErrors())
}

// TestState_ClearErrors tests errors clear without touching warnings.
func TestState_ClearErrors(t *testing.T) {
	s := NewState("wf").AddError("oops").AddWarning("careful").ClearErrors()

	assert.False(t, s.HasErrors())
	assert.True(t, s.HasWarnings())
}

// TestState_IncrementIteration tests the counter advances by one.
func TestState_IncrementIteration(t *testing.T) {
	s := NewState("wf").IncrementIteration().IncrementIteration()
	assert.Equal(t, 2, s.Iteration)
}

// TestState_JSONRoundTrip tests serialization preserves all fields.
func TestState_JSONRoundTrip(t *testing.T) {
	s := NewState("wf").
		SetData("key", "value").
		AddError("an error").
		AddWarning("a warning").
		IncrementIteration()

	data, err := s.ToJSON()
	require.NoError(t, err)

	restored, err := StateFromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, s.WorkflowID, restored.WorkflowID)
	assert.Equal(t, s.RunID, restored.RunID)
	assert.Equal(t, s.Iteration, restored.Iteration)
	assert.Equal(t, s.Data, restored.Data)
	assert.Equal(t, s.Errors, restored.Errors)
	assert.Equal(t, s.Warnings, restored.Warnings)
	assert.True(t, s.Timestamp.Equal(restored.Timestamp))
}

// TestStateFromJSON_NormalizesNilCollections tests empty collections
// survive a round trip as empty, not nil.
func TestStateFromJSON_NormalizesNilCollections(t *testing.T) {
	restored, err := StateFromJSON([]byte(`{"workflow_id":"wf"}`))
	require.NoError(t, err)

	assert.NotNil(t, restored.Data)
	assert.NotNil(t, restored.Errors)
	assert.NotNil(t, restored.Warnings)
	assert.NotNil(t, restored.Config)
}

// TestStateFromJSON_Invalid tests malformed input is an error.
func TestStateFromJSON_Invalid(t *testing.T) {
	_, err := StateFromJSON([]byte("{not json"))
	assert.Error(t, err)
}

// TestState_ConfigView tests typed access to the config map.
func TestState_ConfigView(t *testing.T) {
	s := NewState("wf")
	s.Config["retries"] = 3

	assert.Equal(t, 3, s.ConfigView().Int("retries", 0))
}

// TestState_String tests the log-friendly summary.
func TestState_String(t *testing.T) {
	s := NewState("wf").AddError("x")
	assert.Contains(t, s.String(), "workflow=wf")
	assert.Contains(t, s.String(), "errors=1")
}
