package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/quiz"
)

var extensions = []string{".yaml", ".yml"}

// Load reads one quiz document from path.
func Load(path string) (*quiz.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrCollectionNotFound)
		}
		return nil, err
	}
	c, err := Decode(data, stem(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadDir merges every quiz document in dir, one per topic, in file name
// order. An empty title defaults to the directory name.
func LoadDir(dir, title string) (*quiz.Collection, error) {
	files, err := quizFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: no quiz files: %w", dir, domain.ErrCollectionNotFound)
	}
	parts := make([]*quiz.Collection, 0, len(files))
	for _, f := range files {
		c, err := Load(f)
		if err != nil {
			return nil, err
		}
		parts = append(parts, c)
	}
	if title == "" {
		title = filepath.Base(dir)
	}
	return quiz.Merge(title, parts...), nil
}

// Save writes c to path, creating parent directories.
func Save(path string, c *quiz.Collection) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Loader serves collections out of a directory: <dir>/<name>.yaml is a whole
// quiz and <dir>/<name>/ is a topic directory merged into one collection.
type Loader struct {
	dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// LoadCollection resolves name inside the loader directory.
func (l *Loader) LoadCollection(_ context.Context, name string) (*quiz.Collection, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrCollectionNotFound)
	}
	for _, ext := range extensions {
		path := filepath.Join(l.dir, name+ext)
		if isFile(path) {
			return Load(path)
		}
	}
	if dir := filepath.Join(l.dir, name); isDir(dir) {
		return LoadDir(dir, "")
	}
	return nil, fmt.Errorf("%q: %w", name, domain.ErrCollectionNotFound)
}

// ListCollections implements app.Catalog.
func (l *Loader) ListCollections(_ context.Context) ([]domain.CatalogEntry, error) {
	return Discover(l.dir)
}

// Discover lists quiz files and topic directories directly under dir. Entries
// that cannot be read are skipped.
func Discover(dir string) ([]domain.CatalogEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		switch {
		case e.IsDir():
			files, err := quizFiles(path)
			if err != nil || len(files) == 0 {
				continue
			}
			out = append(out, domain.CatalogEntry{
				Name:  e.Name(),
				Title: fmt.Sprintf("%s (%d topics)", e.Name(), len(files)),
				Path:  path,
			})
		case hasQuizExt(e.Name()):
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			title, err := Title(data)
			if err != nil {
				continue
			}
			if title == "" {
				title = stem(path)
			}
			out = append(out, domain.CatalogEntry{Name: stem(path), Title: title, Path: path})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func quizFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", dir, domain.ErrCollectionNotFound)
		}
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && hasQuizExt(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func hasQuizExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range extensions {
		if ext == want {
			return true
		}
	}
	return false
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
