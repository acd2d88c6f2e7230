package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recallr/internal/learning"
	"github.com/at-ishikawa/recallr/internal/testutil"
)

func TestSortFlag(t *testing.T) {
	tests := []struct {
		value   string
		want    SortFlag
		wantErr bool
	}{
		{value: "asc", want: SortAscending},
		{value: "desc", want: SortDescending},
		{value: "random", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			var got SortFlag
			err := got.Set(tt.value)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid value")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.value, got.String())
			assert.Equal(t, "SortFlag", got.Type())
		})
	}

	var nilFlag *SortFlag
	assert.Equal(t, "", nilFlag.String())
}

func TestAddAndListCommands(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := setupTestConfigFile(t, tmpDir)

	output, err := executeCommand(t, cfgPath, "", "add", "Goroutines", "--body", "What is a goroutine?")
	require.NoError(t, err)
	assert.Contains(t, output, "Added ")
	assert.Contains(t, output, ": Goroutines")

	_, err = executeCommand(t, cfgPath, "", "add", "Channels")
	require.NoError(t, err)

	items, err := learning.NewYAMLRepository(testutil.LearningFilePath(tmpDir), learning.Normalizer{}).FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "What is a goroutine?", items[0].Body)
	assert.NotEqual(t, items[0].ID, items[1].ID)

	output, err = executeCommand(t, cfgPath, "", "list", "--sort", "asc")
	require.NoError(t, err)
	assert.Contains(t, output, "Goroutines")
	assert.Contains(t, output, "Channels")
	assert.Equal(t, 2, strings.Count(output, "never"))

	_, err = executeCommand(t, cfgPath, "", "list", "--sort", "random")
	assert.ErrorContains(t, err, "invalid value")
}

func TestAddCommand_RequiresTitle(t *testing.T) {
	cfgPath := setupTestConfigFile(t, t.TempDir())
	_, err := executeCommand(t, cfgPath, "", "add")
	assert.Error(t, err)
}

func TestRemoveCommand(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := setupTestConfigFile(t, tmpDir)
	path := testutil.LearningFilePath(tmpDir)
	testutil.CreateLearningFile(t, path,
		testutil.NewItem("a", "Goroutines", 3),
		testutil.NewItem("b", "Channels", 1),
	)

	output, err := executeCommand(t, cfgPath, "", "remove", "a")
	require.NoError(t, err)
	assert.Equal(t, "Removed a\n", output)

	items, err := learning.NewYAMLRepository(path, learning.Normalizer{}).FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)

	_, err = executeCommand(t, cfgPath, "", "remove", "a")
	assert.ErrorIs(t, err, learning.ErrItemNotFound)
}
