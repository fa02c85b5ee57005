package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/petanque-league/internal/infrastructure/repository/document"
)

type entry struct {
	body  []byte
	token string
}

// DocumentStore keeps documents in process memory. It backs tests and
// ephemeral runs and loses everything on restart.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]entry
}

var _ document.Store = (*DocumentStore)(nil)

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]entry)}
}

func (s *DocumentStore) Read(_ context.Context, name string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[name]
	if !ok {
		return nil, "", nil
	}
	return append([]byte(nil), doc.body...), doc.token, nil
}

func (s *DocumentStore) Write(_ context.Context, name string, body []byte, expectedToken string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.docs[name].token
	if current != expectedToken {
		return "", document.Conflict(name, expectedToken, current)
	}

	token := document.ETag(body)
	s.docs[name] = entry{body: append([]byte(nil), body...), token: token}
	return token, nil
}

func (s *DocumentStore) Ping(context.Context) error {
	return nil
}
