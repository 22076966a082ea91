package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gosimple/slug"
)

// partitionStore appends JSON lines to per-class, per-year files under
// the data directory, e.g. data/log2026/class-10-science_approvals.jsonl.
// Files are append-only; one mutex per file keeps concurrent writers
// from interleaving lines.
type partitionStore struct {
	dataDir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPartitionStore(dataDir string) *partitionStore {
	return &partitionStore{
		dataDir: dataDir,
		locks:   map[string]*sync.Mutex{},
	}
}

func partitionName(className string, approved bool) string {
	suffix := "_declines.jsonl"
	if approved {
		suffix = "_approvals.jsonl"
	}
	return slug.Make(className) + suffix
}

func (s *partitionStore) path(year int, className string, approved bool) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("log%d", year), partitionName(className, approved))
}

func (s *partitionStore) lockFor(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[path]
	if !ok {
		l = &sync.Mutex{}
		s.locks[path] = l
	}
	return l
}

func (s *partitionStore) Append(year int, className string, approved bool, line []byte) error {
	path := s.path(year, className, approved)
	l := s.lockFor(path)
	l.Lock()
	defer l.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create partition dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open partition: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append partition: %w", err)
	}
	return nil
}
