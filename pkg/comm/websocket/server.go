package websocket

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/remotelink/pkg/framework"
	"github.com/robotalks/remotelink/pkg/msgs"
)

// Path is where the endpoint is served.
const Path = "/events"

// Server broadcasts encoded Typed packets to all connected clients.
// A client receives the latest status right after connecting.
type Server struct {
	Addr string

	lock     sync.Mutex
	clients  map[*ReadWriter]struct{}
	status   []byte
	sequence uint64
	handler  websocket.Handler
}

// NewServer creates a Server listening on addr.
func NewServer(addr string) *Server {
	s := &Server{Addr: addr, clients: make(map[*ReadWriter]struct{})}
	s.handler = websocket.Handler(s.serveConn)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// SendEvent implements registry.Registrar.
func (s *Server) SendEvent(ctx context.Context, msg fx.Message) error {
	pkt, err := s.encode(msg)
	if err != nil {
		return err
	}
	s.broadcast(pkt)
	return nil
}

// SetStatus implements registry.Registrar.
func (s *Server) SetStatus(ctx context.Context, msg fx.Message) error {
	pkt, err := s.encode(msg)
	if err != nil {
		return err
	}
	s.lock.Lock()
	s.status = pkt
	s.lock.Unlock()
	s.broadcast(pkt)
	return nil
}

// NumClients returns the number of connected clients.
func (s *Server) NumClients() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.clients)
}

// AddToLoop implements LoopAdder.
func (s *Server) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(s)
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle(Path, s)
	srv := &http.Server{Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	glog.Infof("websocket serving on %s%s", ln.Addr(), Path)
	if err = srv.Serve(ln); err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) encode(msg fx.Message) ([]byte, error) {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return nil, err
	}
	s.lock.Lock()
	s.sequence++
	typed.Sequence = s.sequence
	s.lock.Unlock()
	return typed.Encode()
}

func (s *Server) broadcast(pkt []byte) {
	s.lock.Lock()
	clients := make([]*ReadWriter, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.lock.Unlock()
	for _, c := range clients {
		if err := c.WritePacket(pkt); err != nil {
			glog.V(1).Infof("websocket client dropped: %v", err)
			s.remove(c)
		}
	}
}

func (s *Server) remove(c *ReadWriter) {
	s.lock.Lock()
	delete(s.clients, c)
	s.lock.Unlock()
	c.Close()
}

func (s *Server) serveConn(conn *websocket.Conn) {
	c := New(conn)
	conn.PayloadType = websocket.BinaryFrame
	s.lock.Lock()
	s.clients[c] = struct{}{}
	status := s.status
	s.lock.Unlock()
	glog.V(1).Infof("websocket client %s connected", conn.Request().RemoteAddr)
	if status != nil {
		if err := c.WritePacket(status); err != nil {
			s.remove(c)
			return
		}
	}
	// clients only listen; reading detects disconnection.
	for {
		if _, err := c.ReadPacket(); err != nil {
			s.remove(c)
			return
		}
	}
}
