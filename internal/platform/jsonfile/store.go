// Package jsonfile implements the store interfaces on top of a single
// JSON document. Every mutation is a full read-parse-modify-serialize-write
// cycle guarded by a mutex, so each write lands as internally consistent
// JSON and every store method is atomic with respect to the others in the
// same process. Throughput is bounded by the rewrite; that is an accepted
// property of this storage engine.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/store"
)

const storeFileName = "store.json"

// Options configures optional store behavior.
type Options struct {
	// LockTTL is the lease age after which a processing job's lock is
	// considered abandoned and may be reclaimed by LockNextJob. Zero
	// disables reclaim, which matches a strict single-worker setup.
	LockTTL time.Duration
}

// Store is the JSON-document implementation of store.Store.
type Store struct {
	dataDir string
	path    string
	lockTTL time.Duration
	mu      sync.Mutex
	logger  *slog.Logger
}

// Ensure Store implements the full persistence surface.
var _ store.Store = (*Store)(nil)

// New creates a Store rooted at dataDir. The backing file is created on
// first use. If logger is nil, the default logger is used.
func New(dataDir string, opts Options, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		dataDir: dataDir,
		path:    filepath.Join(dataDir, storeFileName),
		lockTTL: opts.LockTTL,
		logger:  logger.With(slog.String("component", "jsonfile_store")),
	}
}

// document is the on-disk shape: seven top-level arrays in one file.
type document struct {
	Tenants     []domain.Tenant     `json:"tenants"`
	Users       []domain.User       `json:"users"`
	Memberships []domain.Membership `json:"memberships"`
	Notes       []domain.Note       `json:"notes"`
	Tasks       []domain.Task       `json:"tasks"`
	Jobs        []domain.Job        `json:"jobs"`
	AuditEvents []domain.AuditEvent `json:"auditEvents"`
}

func emptyDocument() *document {
	return &document{
		Tenants:     []domain.Tenant{},
		Users:       []domain.User{},
		Memberships: []domain.Membership{},
		Notes:       []domain.Note{},
		Tasks:       []domain.Task{},
		Jobs:        []domain.Job{},
		AuditEvents: []domain.AuditEvent{},
	}
}

// Initialize creates the data directory and an empty document if none
// exists yet. Safe to call repeatedly.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return s.save(emptyDocument())
	} else if err != nil {
		return fmt.Errorf("stat store file: %w", err)
	}

	return nil
}

// Reset overwrites the document with an empty one.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	return s.save(emptyDocument())
}

// load reads and parses the document, creating it if absent. Missing
// fields from older documents default to sane zero values. Callers must
// hold the mutex.
func (s *Store) load() (*document, error) {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		doc := emptyDocument()
		if err := s.save(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}

	doc := emptyDocument()
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}

	for i := range doc.Jobs {
		if doc.Jobs[i].UpdatedAt.IsZero() {
			doc.Jobs[i].UpdatedAt = doc.Jobs[i].CreatedAt
		}
	}

	return doc, nil
}

// save serializes and writes the whole document. Callers must hold the
// mutex.
func (s *Store) save(doc *document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize store: %w", err)
	}

	if err := os.WriteFile(s.path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}

	return nil
}

// update runs fn against the loaded document and persists the result
// unless fn errors. This is the single write path for every mutation.
func (s *Store) update(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		return err
	}

	return s.save(doc)
}

// view runs fn against a freshly loaded document without writing back.
func (s *Store) view(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	return fn(doc)
}

func now() time.Time {
	return time.Now().UTC()
}
