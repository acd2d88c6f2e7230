// Package testutil provides shared test helpers for creating config files and learning fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/recallr/internal/learning"
)

// SetupTestConfig creates a config file using the YAML store and the learnings directory.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()
	return writeTestConfig(t, tmpDir, "yaml")
}

// SetupTestConfigWithDatabase creates a config file that stores items in a SQLite database.
func SetupTestConfigWithDatabase(t *testing.T, tmpDir string) string {
	t.Helper()
	return writeTestConfig(t, tmpDir, "database")
}

func writeTestConfig(t *testing.T, tmpDir, backend string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "learnings"), 0755))
	configContent := fmt.Sprintf(`store:
  backend: %s
learnings:
  directory: %s
  file: learnings.yml
database:
  driver: sqlite
  path: %s
  connect_retries: 0
review:
  session_limit: 20
`,
		backend,
		filepath.Join(tmpDir, "learnings"),
		filepath.Join(tmpDir, "recallr.db"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// LearningFilePath returns the learning file path used by SetupTestConfig.
func LearningFilePath(tmpDir string) string {
	return filepath.Join(tmpDir, "learnings", "learnings.yml")
}

// ItemOption configures optional fields when creating a learning item fixture.
type ItemOption func(*learning.Item)

// WithStage sets the stage of the item.
func WithStage(stage int) ItemOption {
	return func(item *learning.Item) {
		item.Stage = stage
	}
}

// WithReviews sets the review history of the item.
func WithReviews(reviews ...learning.Review) ItemOption {
	return func(item *learning.Item) {
		item.Reviews = reviews
	}
}

// NewItem creates an item created daysAgo days before now.
// By default the item is at stage 0 and has never been reviewed.
func NewItem(id, title string, daysAgo int, opts ...ItemOption) learning.Item {
	item := learning.Item{
		ID:        id,
		Title:     title,
		CreatedAt: time.Now().UTC().Truncate(time.Second).AddDate(0, 0, -daysAgo),
	}
	for _, opt := range opts {
		opt(&item)
	}
	return item
}

// CreateLearningFile writes items to path as a learning file.
func CreateLearningFile(t *testing.T, path string, items ...learning.Item) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	content, err := yaml.Marshal(learning.LearningFile{Items: items})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, content, 0644))
}
