package runs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kalder-cloud/reagent/internal/db"
	"github.com/kalder-cloud/reagent/internal/domain"
)

// store is the consumer interface for the redis run store (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	LPush(ctx context.Context, key, value string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// RedisStore keeps runs under <prefix>run:<id> with a chronological index
// list at <prefix>runs.
type RedisStore struct {
	store  store
	prefix string
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed run store.
func NewRedisStore(s store, prefix string) *RedisStore {
	return &RedisStore{store: s, prefix: prefix, now: time.Now}
}

// Save persists one run and prepends its id to the index list. A same-second
// run reuses the key: the payload is overwritten and the index gains a
// duplicate entry, matching the file backend's overwrite semantics.
func (s *RedisStore) Save(ctx context.Context, run domain.AgentRun) error {
	id := runIDPrefix + s.now().Format(timestampLayout)
	data, err := json.Marshal(toDTO(run))
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}

	if err := s.store.Set(ctx, s.runKey(id), data); err != nil {
		return fmt.Errorf("store run %s: %w", id, err)
	}
	if err := s.store.LPush(ctx, s.indexKey(), id); err != nil {
		return fmt.Errorf("index run %s: %w", id, err)
	}
	return nil
}

// List returns all recorded runs, newest first.
func (s *RedisStore) List(ctx context.Context) ([]domain.AgentRun, error) {
	ids, err := s.store.LRange(ctx, s.indexKey(), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	out := make([]domain.AgentRun, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		run, err := s.Get(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrRunNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, run)
	}
	return out, nil
}

// Get returns one recorded run by identifier.
func (s *RedisStore) Get(ctx context.Context, id string) (domain.AgentRun, error) {
	data, err := s.store.Get(ctx, s.runKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.AgentRun{}, domain.ErrRunNotFound
		}
		return domain.AgentRun{}, fmt.Errorf("get run %s: %w", id, err)
	}

	var dto runDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domain.AgentRun{}, fmt.Errorf("parse run %s: %w", id, err)
	}
	return fromDTO(id, dto), nil
}

func (s *RedisStore) runKey(id string) string { return s.prefix + "run:" + id }
func (s *RedisStore) indexKey() string        { return s.prefix + "runs" }
