package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/longplay45/swissgrid/pkg/document"
	"github.com/longplay45/swissgrid/pkg/errors"
)

// File stores one JSON file per document under a root directory. Files
// are sharded into subdirectories by hash prefix so a large store does
// not pile every document into one directory.
type File struct {
	mu  sync.RWMutex
	dir string
}

// NewFile creates a file store rooted at dir, creating it if needed. An
// empty dir defaults to ~/.config/swissgrid/documents.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "resolve home directory")
		}
		dir = filepath.Join(home, ".config", "swissgrid", "documents")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "create store directory %s", dir)
	}
	return &File{dir: dir}, nil
}

// path shards by the first two characters of the ID's hash, the way the
// render cache shards its entries.
func (s *File) path(id string) string {
	sum := sha256.Sum256([]byte(id))
	hash := hex.EncodeToString(sum[:])
	return filepath.Join(s.dir, hash[:2], hash[2:]+".json")
}

func (s *File) Put(ctx context.Context, doc *document.Document) error {
	if err := checkDoc(doc); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document %s", doc.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.path(doc.ID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "create shard directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "write document %s", doc.ID)
	}
	return nil
}

func (s *File) Get(ctx context.Context, id string) (*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "read document %s", id)
	}

	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode document %s", id)
	}
	return &doc, nil
}

func (s *File) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var infos []Info
	err := filepath.WalkDir(s.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var doc document.Document
		if err := json.Unmarshal(data, &doc); err != nil || doc.ID == "" {
			// Skip foreign files in the store directory.
			return nil
		}
		infos = append(infos, infoOf(&doc))
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "walk store directory")
	}

	sortInfos(infos)
	return infos, nil
}

func (s *File) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", id)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "remove document %s", id)
	}
	return nil
}

func (s *File) Close() error {
	return nil
}

var _ Store = (*File)(nil)
