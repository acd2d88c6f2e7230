package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recallr/internal/learning"
	"github.com/at-ishikawa/recallr/internal/testutil"
)

func TestDueAndStatsCommands(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := setupTestConfigFile(t, tmpDir)
	testutil.CreateLearningFile(t, testutil.LearningFilePath(tmpDir),
		testutil.NewItem("a", "Goroutines", 10),
		testutil.NewItem("b", "Channels", 0),
	)

	output, err := executeCommand(t, cfgPath, "", "due")
	require.NoError(t, err)
	assert.Contains(t, output, "Goroutines")
	assert.NotContains(t, output, "Channels")

	output, err = executeCommand(t, cfgPath, "", "stats", "a")
	require.NoError(t, err)
	assert.Contains(t, output, "Total reviews:     0")
	assert.Contains(t, output, "Last review:       never")

	_, err = executeCommand(t, cfgPath, "", "stats", "missing")
	assert.ErrorIs(t, err, learning.ErrItemNotFound)
}

func TestReviewCommand(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := setupTestConfigFile(t, tmpDir)
	testutil.CreateLearningFile(t, testutil.LearningFilePath(tmpDir),
		testutil.NewItem("a", "Goroutines", 10),
		testutil.NewItem("b", "Channels", 30),
	)

	output, err := executeCommand(t, cfgPath, "y\ne\n", "review", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, output, "[1/1] Channels")
	assert.Contains(t, output, "Next review in 5 days")
	assert.Contains(t, output, "No more items to review!")

	item, err := learning.NewYAMLRepository(testutil.LearningFilePath(tmpDir), learning.Normalizer{}).FindByID(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, 1, item.Stage)
	assert.Equal(t, 5, item.IntervalDays)
	require.Len(t, item.Reviews, 1)
	assert.Equal(t, learning.DifficultyEasy, item.Reviews[0].Difficulty)
	assert.True(t, item.Reviews[0].Correct)
	require.NotNil(t, item.NextReviewAt)
	next := item.NextReviewAt.Format(time.DateOnly)
	assert.Contains(t, output, "Next review in 5 days on "+next)

	output, err = executeCommand(t, cfgPath, "", "stats", "b")
	require.NoError(t, err)
	assert.Contains(t, output, "Next review:       "+next)

	output, err = executeCommand(t, cfgPath, "", "due")
	require.NoError(t, err)
	assert.Contains(t, output, "Goroutines")
	assert.NotContains(t, output, "Channels")
}

func TestReviewCommand_Database(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := setupTestConfigFile(t, tmpDir)
	testutil.CreateLearningFile(t, testutil.LearningFilePath(tmpDir),
		testutil.NewItem("a", "Goroutines", 10),
	)
	_, err := executeCommand(t, cfgPath, "", "migrate", "import-db")
	require.NoError(t, err)

	dbCfgPath := testutil.SetupTestConfigWithDatabase(t, tmpDir)
	output, err := executeCommand(t, dbCfgPath, "y\ne\n", "review")
	require.NoError(t, err)
	next := time.Now().AddDate(0, 0, 5).Format(time.DateOnly)
	assert.Contains(t, output, "Next review in 5 days on "+next+" (stage 1)")

	output, err = executeCommand(t, dbCfgPath, "", "stats", "a")
	require.NoError(t, err)
	assert.Contains(t, output, "Total reviews:     1")
	assert.Contains(t, output, "Next review:       "+next)

	output, err = executeCommand(t, dbCfgPath, "", "due")
	require.NoError(t, err)
	assert.Contains(t, output, "Nothing is due today.")
}

func TestNewDueCommand(t *testing.T) {
	cmd := newDueCommand()

	assert.Equal(t, "due", cmd.Use)
	limitFlag := cmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "0", limitFlag.DefValue)
}
