package preview

import (
	"sync"

	"github.com/gorilla/websocket"
)

// client is one connected preview tab. Writes are serialized per connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// clientSet tracks live websocket clients.
type clientSet struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

func newClientSet() *clientSet {
	return &clientSet{clients: make(map[*client]struct{})}
}

func (s *clientSet) add(c *client) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = struct{}{}
	return len(s.clients)
}

// remove reports whether c was still registered.
func (s *clientSet) remove(c *client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; !ok {
		return false
	}
	delete(s.clients, c)
	return true
}

func (s *clientSet) snapshot() []*client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		out = append(out, c)
	}
	return out
}

func (s *clientSet) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
