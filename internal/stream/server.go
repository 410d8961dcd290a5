// Package stream publishes parsed meshes to viewer clients as JSON lines
// over TCP. The parsing core never touches this package; it is the sink
// side of the pipeline.
package stream

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/notashes/cadstream/internal/cad"
)

// Update is the wire payload for one mesh broadcast.
type Update struct {
	Name          string       `json:"name"`
	Format        string       `json:"format"`
	TriangleCount int          `json:"triangle_count"`
	SourceBytes   int          `json:"source_bytes"`
	BoundsMin     [3]float32   `json:"bounds_min"`
	BoundsMax     [3]float32   `json:"bounds_max"`
	Warnings      []WarningRec `json:"warnings,omitempty"`
	Positions     []float32    `json:"positions"` // x y z per vertex, nine values per triangle
	Normals       []float32    `json:"normals"`   // x y z per triangle
}

// WarningRec is one validation warning on the wire.
type WarningRec struct {
	Triangle int    `json:"triangle"`
	Kind     string `json:"kind"`
}

// Server broadcasts mesh updates to every connected client. A client that
// connects after the last update immediately receives it.
type Server struct {
	ln net.Listener

	mu      sync.Mutex
	clients map[net.Conn]struct{}
	last    []byte // last encoded update, newline-terminated
}

// Listen binds addr and returns a server ready to Serve.
func Listen(addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("stream: listen %s: %w", addr, err)
	}
	return &Server{
		ln:      ln,
		clients: make(map[net.Conn]struct{}),
	}, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve accepts clients until the listener is closed.
func (s *Server) Serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.clients[conn] = struct{}{}
		if s.last != nil {
			if _, err := conn.Write(s.last); err != nil {
				delete(s.clients, conn)
				conn.Close()
			}
		}
		s.mu.Unlock()
	}
}

// Publish encodes m and sends it to every connected client. Clients whose
// writes fail are dropped.
func (s *Server) Publish(m *cad.Mesh) error {
	line, err := encodeUpdate(m)
	if err != nil {
		return fmt.Errorf("stream: encode %s: %w", m.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = line
	for conn := range s.clients {
		if _, err := conn.Write(line); err != nil {
			delete(s.clients, conn)
			conn.Close()
		}
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close stops accepting and disconnects all clients.
func (s *Server) Close() error {
	err := s.ln.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		conn.Close()
	}
	s.clients = make(map[net.Conn]struct{})
	return err
}

func encodeUpdate(m *cad.Mesh) ([]byte, error) {
	u := Update{
		Name:          m.Name,
		Format:        m.Format,
		TriangleCount: m.TriangleCount(),
		SourceBytes:   m.SourceBytes,
		BoundsMin:     [3]float32(m.Bounds.Min),
		BoundsMax:     [3]float32(m.Bounds.Max),
		Positions:     make([]float32, 0, len(m.Triangles)*9),
		Normals:       make([]float32, 0, len(m.Triangles)*3),
	}
	for _, w := range m.Warnings {
		u.Warnings = append(u.Warnings, WarningRec{Triangle: w.Index, Kind: w.Kind.String()})
	}
	for i := range m.Triangles {
		t := &m.Triangles[i]
		for _, v := range t.Vertices {
			u.Positions = append(u.Positions, v[0], v[1], v[2])
		}
		u.Normals = append(u.Normals, t.Normal[0], t.Normal[1], t.Normal[2])
	}

	line, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	return append(line, '\n'), nil
}
