package repository

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"study-tracker/internal/domain"
)

// FileContentRepository serves markdown learning content from a directory
// tree laid out as <root>/<topic>/<relative path>.md.
type FileContentRepository struct {
	root   string
	logger domain.Logger
}

func NewFileContentRepository(config domain.Config, logger domain.Logger) domain.ContentRepository {
	return &FileContentRepository{
		root:   config.GetContentRoot(),
		logger: logger,
	}
}

func (r *FileContentRepository) Read(id domain.ContentIdentifier) ([]byte, error) {
	path, err := r.resolve(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to read content %s: %w", id, err)
	}
	return data, nil
}

func (r *FileContentRepository) List(topic string) ([]string, error) {
	if topic == "" || strings.Contains(topic, "/") || strings.Contains(topic, "..") {
		return nil, domain.ErrInvalidContentID
	}

	topicDir := filepath.Join(r.root, topic)
	info, err := os.Stat(topicDir)
	if err != nil || !info.IsDir() {
		return nil, domain.ErrContentNotFound
	}

	var files []string
	err = filepath.WalkDir(topicDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(topicDir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list content for topic %s: %w", topic, err)
	}

	sort.Strings(files)
	return files, nil
}

// resolve maps a content identifier onto a file path inside the content root,
// rejecting identifiers that would escape it.
func (r *FileContentRepository) resolve(id domain.ContentIdentifier) (string, error) {
	topic := id.Topic()
	rel := id.Path()
	if topic == "" || rel == "" {
		return "", domain.ErrInvalidContentID
	}
	if strings.Contains(string(id), "..") {
		return "", domain.ErrInvalidContentID
	}

	path := filepath.Join(r.root, topic, filepath.FromSlash(rel))

	rootAbs, err := filepath.Abs(r.root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve content root: %w", err)
	}
	pathAbs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve content path: %w", err)
	}
	if !strings.HasPrefix(pathAbs, rootAbs+string(filepath.Separator)) {
		return "", domain.ErrInvalidContentID
	}
	return path, nil
}
