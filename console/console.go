// Package console implements the remote-administration console: a
// line-oriented TCP listener sharing one command table with the optional
// local stdin console.
package console

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ebonhold/worldcore/store"
	"github.com/ebonhold/worldcore/world"
)

const prompt = "wc> "

// A Server answers admin commands over TCP. The same Exec entry point backs
// the local console.
type Server struct {
	addr     string
	world    *world.World
	store    *store.Store
	shutdown func()
	log      *zap.Logger

	ln net.Listener

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// NewServer creates a console bound to a world and its store. shutdown is
// invoked by the shutdown command.
func NewServer(
	addr string,
	w *world.World,
	s *store.Store,
	shutdown func(),
	log *zap.Logger,
) *Server {
	return &Server{
		addr:     addr,
		world:    w,
		store:    s,
		shutdown: shutdown,
		log:      log,
		conns:    make(map[net.Conn]struct{}),
	}
}

// Start begins accepting console connections in a background goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln

	s.log.Info("remote console listening",
		zap.String("addr", ln.Addr().String()))

	go s.acceptLoop()

	return nil
}

// Addr returns the listen address once the server has started.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Close stops the listener and disconnects every console client.
func (s *Server) Close() error {
	if s.ln == nil {
		return nil
	}

	err := s.ln.Close()

	s.mu.Lock()
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()

	return err
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	s.log.Info("console client connected",
		zap.String("remote", conn.RemoteAddr().String()))

	fmt.Fprintf(conn, "worldcore console, realm %d. Type help.\n",
		s.world.RealmID())

	s.Interact(conn, conn)
}

// Interact runs the console loop over any reader/writer pair until EOF or a
// quitting command. The local stdin console uses it directly.
func (s *Server) Interact(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, prompt)

		if !scanner.Scan() {
			return
		}

		if s.Exec(scanner.Text(), out) {
			return
		}
	}
}

// Exec runs one command line and reports whether the session should end.
func (s *Server) Exec(line string, out io.Writer) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "help":
		s.cmdHelp(out)
	case "status":
		s.cmdStatus(out)
	case "shards":
		s.cmdShards(out)
	case "sessions":
		s.cmdSessions(out)
	case "characters":
		s.cmdCharacters(out)
	case "kick":
		s.cmdKick(out, fields[1:])
	case "shutdown":
		fmt.Fprintln(out, "shutting down")
		go s.shutdown()
		return true
	case "quit", "exit":
		fmt.Fprintln(out, "bye")
		return true
	default:
		fmt.Fprintf(out, "unknown command %q, try help\n", fields[0])
	}

	return false
}

func (s *Server) cmdHelp(out io.Writer) {
	fmt.Fprintln(out, "commands: help status shards sessions characters "+
		"kick <session> shutdown quit")
}

func (s *Server) cmdStatus(out io.Writer) {
	fmt.Fprintf(out, "realm %d run %s uptime %s sessions %d\n",
		s.world.RealmID(), s.world.RunID(),
		s.world.Uptime().Round(time.Second), s.world.SessionCount())
}

func (s *Server) cmdShards(out io.Writer) {
	for _, sh := range s.world.Shards() {
		fmt.Fprintf(out, "%s clock=%d pending=%d\n",
			sh.Name(), sh.Clock(), sh.PendingUnits())
	}
}

func (s *Server) cmdSessions(out io.Writer) {
	ids := s.world.SessionIDs()
	sort.Strings(ids)

	for _, id := range ids {
		sess := s.world.Session(id)
		if sess == nil {
			continue
		}
		fmt.Fprintf(out, "%s account=%s idle=%s\n",
			sess.ID, sess.Account,
			time.Since(sess.LastSeen()).Round(time.Second))
	}
	fmt.Fprintf(out, "%d session(s)\n", len(ids))
}

func (s *Server) cmdCharacters(out io.Writer) {
	n, err := s.store.CharacterCount()
	if err != nil {
		fmt.Fprintf(out, "error: %s\n", err)
		return
	}

	fmt.Fprintf(out, "%d character(s)\n", n)
}

func (s *Server) cmdKick(out io.Writer, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(out, "usage: kick <session>")
		return
	}

	if s.world.RemoveSession(args[0]) {
		fmt.Fprintf(out, "session %s kicked\n", args[0])
		return
	}

	fmt.Fprintf(out, "no such session %s\n", args[0])
}
