// Package store persists documents behind one interface with
// interchangeable backends:
//   - memory: in-process storage for tests and single-run tools
//   - file: one JSON file per document under a root directory
//   - redis: go-redis backed storage with optional expiry
//   - mongo: mongo-driver backed storage, upsert by document ID
//
// Open picks the backend from a URL scheme. All backends report through
// the observability store hooks.
package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/longplay45/swissgrid/pkg/document"
	"github.com/longplay45/swissgrid/pkg/errors"
	"github.com/longplay45/swissgrid/pkg/observability"
)

// Info is the listing entry for one stored document.
type Info struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Format    string    `json:"format" bson:"format"`
	Blocks    int       `json:"blocks" bson:"blocks"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the interface all persistence backends implement. Get and
// Delete return a DOCUMENT_NOT_FOUND error for unknown IDs.
type Store interface {
	Put(ctx context.Context, doc *document.Document) error
	Get(ctx context.Context, id string) (*document.Document, error)
	List(ctx context.Context) ([]Info, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Open creates the backend named by the URL scheme:
//
//	mem://                    in-process memory store
//	file:///var/lib/swissgrid file store rooted at the path
//	redis://localhost:6379/0  redis store
//	mongodb://localhost:27017 mongo store
func Open(ctx context.Context, rawURL string) (Store, error) {
	if err := errors.ValidateStoreURL(rawURL); err != nil {
		return nil, err
	}
	switch {
	case strings.HasPrefix(rawURL, "mem://"):
		return instrument("memory", NewMemory()), nil
	case strings.HasPrefix(rawURL, "file://"):
		s, err := NewFile(strings.TrimPrefix(rawURL, "file://"))
		if err != nil {
			return nil, err
		}
		return instrument("file", s), nil
	case strings.HasPrefix(rawURL, "redis://"), strings.HasPrefix(rawURL, "rediss://"):
		s, err := NewRedis(rawURL, 0)
		if err != nil {
			return nil, err
		}
		return instrument("redis", s), nil
	case strings.HasPrefix(rawURL, "mongodb://"), strings.HasPrefix(rawURL, "mongodb+srv://"):
		s, err := NewMongo(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		return instrument("mongo", s), nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported store URL: %s", rawURL)
}

// checkDoc validates what every backend requires before writing.
func checkDoc(doc *document.Document) error {
	if doc == nil {
		return errors.New(errors.ErrCodeInvalidInput, "document is nil")
	}
	return errors.ValidateDocumentID(doc.ID)
}

// infoOf builds the listing entry for a document.
func infoOf(doc *document.Document) Info {
	return Info{
		ID:        doc.ID,
		Name:      doc.Name,
		Format:    string(doc.Grid.Format),
		Blocks:    len(doc.Blocks),
		UpdatedAt: doc.UpdatedAt,
	}
}

// sortInfos orders a listing newest first, ties by ID.
func sortInfos(infos []Info) {
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].UpdatedAt.Equal(infos[j].UpdatedAt) {
			return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
		}
		return infos[i].ID < infos[j].ID
	})
}

// instrumented reports every operation through the store hooks on its way
// to the wrapped backend.
type instrumented struct {
	backend string
	inner   Store
}

func instrument(backend string, inner Store) Store {
	return &instrumented{backend: backend, inner: inner}
}

func (s *instrumented) Put(ctx context.Context, doc *document.Document) error {
	err := s.inner.Put(ctx, doc)
	if err != nil {
		observability.Store().OnStoreError(ctx, s.backend, "put", err)
		return err
	}
	observability.Store().OnStorePut(ctx, s.backend, len(doc.Blocks))
	return nil
}

func (s *instrumented) Get(ctx context.Context, id string) (*document.Document, error) {
	doc, err := s.inner.Get(ctx, id)
	switch {
	case err == nil:
		observability.Store().OnStoreGet(ctx, s.backend, true)
	case errors.Is(err, errors.ErrCodeDocumentNotFound):
		observability.Store().OnStoreGet(ctx, s.backend, false)
	default:
		observability.Store().OnStoreError(ctx, s.backend, "get", err)
	}
	return doc, err
}

func (s *instrumented) List(ctx context.Context) ([]Info, error) {
	infos, err := s.inner.List(ctx)
	if err != nil {
		observability.Store().OnStoreError(ctx, s.backend, "list", err)
	}
	return infos, err
}

func (s *instrumented) Delete(ctx context.Context, id string) error {
	err := s.inner.Delete(ctx, id)
	switch {
	case err == nil:
		observability.Store().OnStoreDelete(ctx, s.backend)
	case errors.Is(err, errors.ErrCodeDocumentNotFound):
		// A miss is not a backend failure.
	default:
		observability.Store().OnStoreError(ctx, s.backend, "delete", err)
	}
	return err
}

func (s *instrumented) Close() error {
	return s.inner.Close()
}
