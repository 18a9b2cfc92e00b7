package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"interview-runtime/internal/interview"
)

var sessionExtensions = []string{".yaml", ".yml", ".json"}

// DirFetcher loads session definitions from {dir}/{id}.yaml, .yml or .json.
type DirFetcher struct {
	dir string
}

func NewDirFetcher(dir string) *DirFetcher {
	return &DirFetcher{dir: dir}
}

// FetchSession implements runtime.Fetcher.
func (f *DirFetcher) FetchSession(ctx context.Context, id string) (*interview.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, fmt.Errorf("invalid session id %q: %w", id, interview.ErrSessionNotFound)
	}

	for _, ext := range sessionExtensions {
		path := filepath.Join(f.dir, id+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read file %s: %w", path, err)
		}
		return decodeSession(path, data)
	}

	return nil, fmt.Errorf("session %s in %s: %w", id, f.dir, interview.ErrSessionNotFound)
}

// ListSessions returns the ids of session files in the directory.
func (f *DirFetcher) ListSessions() ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", f.dir, err)
	}

	seen := make(map[string]bool)
	ids := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		for _, known := range sessionExtensions {
			if ext != known {
				continue
			}
			id := strings.TrimSuffix(entry.Name(), ext)
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func decodeSession(path string, data []byte) (*interview.Session, error) {
	var session interview.Session
	var err error
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(data, &session)
	} else {
		err = yaml.Unmarshal(data, &session)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := interview.Validate(&session); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return &session, nil
}
