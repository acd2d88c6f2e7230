package learning

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

func readYamlFile[T any](path string) (T, error) {
	var result T

	file, err := os.Open(path)
	if err != nil {
		return result, fmt.Errorf("os.Open(%s)> %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := yaml.NewDecoder(file).Decode(&result); err != nil {
		return result, fmt.Errorf("yaml.NewDecoder().Decode()> %w", err)
	}
	return result, nil
}

// writeYamlFileAtomic encodes data into a temporary file next to path and
// renames it over path, so readers never observe a partially written file.
func writeYamlFileAtomic[T any](path string, data T) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s)> %w", dir, err)
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp(%s)> %w", dir, err)
	}
	tmpPath := file.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("yaml.NewEncoder().Encode()> %w", err)
	}
	if err := encoder.Close(); err != nil {
		_ = file.Close()
		return fmt.Errorf("encoder.Close()> %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("file.Close()> %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("os.Rename(%s, %s)> %w", tmpPath, path, err)
	}
	return nil
}

// YAMLRepository stores all learning items in a single YAML file.
type YAMLRepository struct {
	path       string
	normalizer Normalizer
	mu         sync.Mutex
}

// NewYAMLRepository creates a new YAMLRepository backed by the file at path.
// The file is created on the first write.
func NewYAMLRepository(path string, normalizer Normalizer) *YAMLRepository {
	return &YAMLRepository{path: path, normalizer: normalizer}
}

func (r *YAMLRepository) load() (LearningFile, error) {
	if _, err := os.Stat(r.path); errors.Is(err, os.ErrNotExist) {
		return LearningFile{}, nil
	}

	file, err := readYamlFile[LearningFile](r.path)
	if err != nil {
		// An empty file decodes to io.EOF; treat it as no items
		if info, statErr := os.Stat(r.path); statErr == nil && info.Size() == 0 {
			return LearningFile{}, nil
		}
		return LearningFile{}, fmt.Errorf("readYamlFile(%s) > %w", r.path, err)
	}
	return file, nil
}

func (r *YAMLRepository) loadNormalized() (LearningFile, error) {
	file, err := r.load()
	if err != nil {
		return LearningFile{}, err
	}
	if err := r.normalizer.Normalize(file.Items); err != nil {
		return LearningFile{}, fmt.Errorf("normalizer.Normalize() > %w", err)
	}
	return file, nil
}

// FindAll returns all items in file order.
func (r *YAMLRepository) FindAll(_ context.Context) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.loadNormalized()
	if err != nil {
		return nil, err
	}
	return file.Items, nil
}

// FindAllRaw returns all items exactly as stored, without normalization.
func (r *YAMLRepository) FindAllRaw(_ context.Context) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load()
	if err != nil {
		return nil, err
	}
	return file.Items, nil
}

// FindByID returns the item with the given id, or ErrItemNotFound.
func (r *YAMLRepository) FindByID(_ context.Context, id string) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.loadNormalized()
	if err != nil {
		return nil, err
	}
	for i := range file.Items {
		if file.Items[i].ID == id {
			return &file.Items[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

// Create appends a new item to the file.
func (r *YAMLRepository) Create(_ context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.loadNormalized()
	if err != nil {
		return err
	}
	for _, existing := range file.Items {
		if existing.ID == item.ID {
			return fmt.Errorf("%w: %s", ErrItemExists, item.ID)
		}
	}

	file.Items = append(file.Items, *item)
	if err := writeYamlFileAtomic(r.path, file); err != nil {
		return fmt.Errorf("writeYamlFileAtomic(%s) > %w", r.path, err)
	}
	return nil
}

// RecordReview appends review to the item, stores next and rewrites the file.
func (r *YAMLRepository) RecordReview(_ context.Context, id string, review Review, next Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.loadNormalized()
	if err != nil {
		return err
	}

	found := false
	for i := range file.Items {
		if file.Items[i].ID != id {
			continue
		}
		file.Items[i].Reviews = append(file.Items[i].Reviews, review)
		file.Items[i].apply(next)
		found = true
		break
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	if err := writeYamlFileAtomic(r.path, file); err != nil {
		return fmt.Errorf("writeYamlFileAtomic(%s) > %w", r.path, err)
	}
	return nil
}

// Delete removes the item from the file.
func (r *YAMLRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load()
	if err != nil {
		return err
	}

	index := slices.IndexFunc(file.Items, func(item Item) bool {
		return item.ID == id
	})
	if index < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	file.Items = slices.Delete(file.Items, index, index+1)

	if err := writeYamlFileAtomic(r.path, file); err != nil {
		return fmt.Errorf("writeYamlFileAtomic(%s) > %w", r.path, err)
	}
	return nil
}

// Rewrite loads, normalizes and writes back every item. Legacy reviews get
// their backfilled "correct" value and normalized difficulty persisted.
// It returns the number of items written.
func (r *YAMLRepository) Rewrite(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.loadNormalized()
	if err != nil {
		return 0, err
	}
	if err := writeYamlFileAtomic(r.path, file); err != nil {
		return 0, fmt.Errorf("writeYamlFileAtomic(%s) > %w", r.path, err)
	}
	return len(file.Items), nil
}
