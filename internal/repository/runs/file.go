package runs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/kalder-cloud/reagent/internal/domain"
)

var runIDRegex = regexp.MustCompile(`^run_[0-9]{8}_[0-9]{6}$`)

// FileStore writes each run to <dir>/run_<timestamp>.json.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore creates a file-backed run store.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now}
}

// Save persists one run. The identifier is derived from the current wall
// clock at second resolution; a same-second run overwrites the file.
func (s *FileStore) Save(_ context.Context, run domain.AgentRun) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create runs dir %s: %w", s.dir, err)
	}

	id := runIDPrefix + s.now().Format(timestampLayout)
	data, err := json.MarshalIndent(toDTO(run), "", "  ")
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}

	path := filepath.Join(s.dir, id+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write run %s: %w", path, err)
	}
	return nil
}

// List returns all recorded runs, newest first.
func (s *FileStore) List(_ context.Context) ([]domain.AgentRun, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.AgentRun{}, nil
		}
		return nil, fmt.Errorf("read runs dir %s: %w", s.dir, err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		if runIDRegex.MatchString(id) {
			ids = append(ids, id)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))

	out := make([]domain.AgentRun, 0, len(ids))
	for _, id := range ids {
		run, err := s.read(id)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, nil
}

// Get returns one recorded run by identifier.
func (s *FileStore) Get(_ context.Context, id string) (domain.AgentRun, error) {
	if !runIDRegex.MatchString(id) {
		return domain.AgentRun{}, domain.ErrRunNotFound
	}
	run, err := s.read(id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.AgentRun{}, domain.ErrRunNotFound
		}
		return domain.AgentRun{}, err
	}
	return run, nil
}

func (s *FileStore) read(id string) (domain.AgentRun, error) {
	path := filepath.Join(s.dir, id+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.AgentRun{}, fmt.Errorf("read run %s: %w", path, err)
	}
	var dto runDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domain.AgentRun{}, fmt.Errorf("parse run %s: %w", path, err)
	}
	return fromDTO(id, dto), nil
}
