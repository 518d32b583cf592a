package router

import (
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/google/uuid"
)

// ConnState is a peer's connection lifecycle: disconnected before any
// dial attempt or after a loss, connecting while a dial is in flight,
// connected once a usable ClientConn exists.
type ConnState int

const (
	Disconnected ConnState = iota
	Connecting
	Connected
)

func (s ConnState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "?"
	}
}

// Peer is one remote node's transport handle: host address, current
// connection state, the live ClientConn once connected, and a session
// token minted fresh on every successful dial so a peer that drops and
// reconnects is observably a new session to anyone logging it.
type Peer struct {
	mu      sync.Mutex
	Addr    string
	State   ConnState
	Conn    *grpc.ClientConn
	Session uuid.UUID

	hasRetried bool
}

func newPeer(addr string) *Peer {
	return &Peer{Addr: addr, State: Disconnected}
}

// dial opens (or reuses) the connection to this peer. It never
// retries itself — sendRemote owns the one-retry policy, applied
// afresh on every send. It clears hasRetried on success; nothing else
// reads that field.
func (p *Peer) dial() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.State == Connected && p.Conn != nil {
		return nil
	}

	p.State = Connecting
	conn, err := grpc.NewClient(p.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		p.State = Disconnected
		return err
	}

	p.Conn = conn
	p.State = Connected
	p.Session = uuid.New()
	p.hasRetried = false
	return nil
}

func (p *Peer) markDisconnected() {
	p.mu.Lock()
	if p.Conn != nil {
		p.Conn.Close()
	}
	p.Conn = nil
	p.State = Disconnected
	p.mu.Unlock()
}
