package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/longplay45/swissgrid/pkg/document"
	"github.com/longplay45/swissgrid/pkg/errors"
)

// Memory is an in-process store. Documents are kept encoded so Get hands
// out isolated copies rather than aliases of live state.
type Memory struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	infos map[string]Info
}

// NewMemory creates an empty memory store.
func NewMemory() *Memory {
	return &Memory{
		docs:  make(map[string][]byte),
		infos: make(map[string]Info),
	}
}

func (s *Memory) Put(ctx context.Context, doc *document.Document) error {
	if err := checkDoc(doc); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document %s", doc.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = data
	s.infos[doc.ID] = infoOf(doc)
	return nil
}

func (s *Memory) Get(ctx context.Context, id string) (*document.Document, error) {
	s.mu.RLock()
	data, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", id)
	}

	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode document %s", id)
	}
	return &doc, nil
}

func (s *Memory) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	infos := make([]Info, 0, len(s.infos))
	for _, info := range s.infos {
		infos = append(infos, info)
	}
	s.mu.RUnlock()

	sortInfos(infos)
	return infos, nil
}

func (s *Memory) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", id)
	}
	delete(s.docs, id)
	delete(s.infos, id)
	return nil
}

func (s *Memory) Close() error {
	return nil
}

var _ Store = (*Memory)(nil)
