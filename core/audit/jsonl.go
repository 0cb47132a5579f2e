package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/railops/inductd/core/model"
)

// JSONLStore appends runs to a JSONL file, one run per line. Queries scan
// the whole file; the store is meant for small depots and development
// setups, production deployments use the SQLite backend.
type JSONLStore struct {
	path string
	mu   sync.Mutex
	ids  map[string]struct{}
}

// NewJSONLStore creates the file if needed and indexes existing run ids so
// the uniqueness guarantee survives restarts.
func NewJSONLStore(path string) (*JSONLStore, error) {
	s := &JSONLStore{path: path, ids: make(map[string]struct{})}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		var r model.InductionRun
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			continue
		}
		s.ids[r.ID] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONLStore) Append(_ context.Context, run model.InductionRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[run.ID]; ok {
		return ErrDuplicateRun
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := json.NewEncoder(f).Encode(run); err != nil {
		return err
	}
	s.ids[run.ID] = struct{}{}
	return nil
}

func (s *JSONLStore) Query(_ context.Context, q Query) ([]model.InductionRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	var res []model.InductionRun
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		var r model.InductionRun
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			continue
		}
		if matches(r, q) {
			res = append(res, r)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	// Newest first, with the limit applied after ordering.
	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	if q.Limit > 0 && len(res) > q.Limit {
		res = res[:q.Limit]
	}
	return res, nil
}

func (s *JSONLStore) Close() error { return nil }
