// Package router implements the inter-node message router: one gRPC
// transport host per node, a peer table keyed by node id, and the
// route/on_receive operations the vat scheduler hands outbound
// traffic to and the gRPC server hands inbound traffic from. Wire
// messages are built with jhump/protoreflect's dynamic message API
// against a single embedded .proto descriptor rather than
// protoc-generated stubs.
package router

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hylic-lang/pleroma/internal/evaluator"
)

// LocalVat is the slice of vat.Vat the router needs to deliver a
// locally-addressed message without importing the vat package.
type LocalVat interface {
	Deliver(msg *evaluator.Msg)
}

// NodeDirectory resolves a peer node id to the host:port it listens
// on; backed by config.NodeConfig.Peers.
type NodeDirectory interface {
	PeerAddr(nodeID uint32) (string, bool)
}

// Router owns one gRPC server (inbound) and a peer table (outbound),
// scoped to a single node.
type Router struct {
	nodeID  uint32
	dir     NodeDirectory
	server  *grpc.Server

	vatsMu sync.RWMutex
	vats   map[uint32]LocalVat

	peersMu sync.Mutex
	peers   map[uint32]*Peer
}

func New(nodeID uint32, dir NodeDirectory) (*Router, error) {
	if err := loadDescriptor(); err != nil {
		return nil, err
	}
	return &Router{
		nodeID: nodeID,
		dir:    dir,
		vats:   make(map[uint32]LocalVat),
		peers:  make(map[uint32]*Peer),
	}, nil
}

// RegisterVat makes a local vat addressable for Route's same-node
// fast path.
func (r *Router) RegisterVat(vatID uint32, v LocalVat) {
	r.vatsMu.Lock()
	r.vats[vatID] = v
	r.vatsMu.Unlock()
}

func (r *Router) localVat(vatID uint32) (LocalVat, bool) {
	r.vatsMu.RLock()
	defer r.vatsMu.RUnlock()
	v, ok := r.vats[vatID]
	return v, ok
}

// Route implements route(msg): same-node messages go straight to the
// destination vat's inbound queue; cross-node messages are serialized
// and sent to the owning peer, dialing (and retrying once) as needed.
// On a permanent failure the caller's promise is resolved with
// TransportFailed rather than left hanging.
func (r *Router) Route(msg *evaluator.Msg) {
	if msg.Dest.NodeID == r.nodeID {
		if v, ok := r.localVat(msg.Dest.VatID); ok {
			v.Deliver(msg)
			return
		}
		log.Printf("router: dropping message for unknown local vat %d", msg.Dest.VatID)
		return
	}

	if err := r.sendRemote(msg); err != nil {
		r.failTransport(msg, err)
	}
}

// PeerCount reports how many distinct peer nodes this router has ever
// dialed or attempted to dial, regardless of current connection state.
func (r *Router) PeerCount() int {
	r.peersMu.Lock()
	defer r.peersMu.Unlock()
	return len(r.peers)
}

// Dial eagerly establishes (or confirms) a connection to a peer node,
// ahead of the lazy dial that would otherwise happen on first Route.
func (r *Router) Dial(nodeID uint32) error {
	peer, err := r.peerFor(nodeID)
	if err != nil {
		return err
	}
	return peer.dial()
}

func (r *Router) peerFor(nodeID uint32) (*Peer, error) {
	r.peersMu.Lock()
	defer r.peersMu.Unlock()

	if p, ok := r.peers[nodeID]; ok {
		return p, nil
	}
	addr, ok := r.dir.PeerAddr(nodeID)
	if !ok {
		return nil, fmt.Errorf("no known address for node %d", nodeID)
	}
	p := newPeer(addr)
	r.peers[nodeID] = p
	return p, nil
}

// sendRemote implements the "re-dial once then fail" connection
// policy: a peer that is disconnected gets exactly one reconnection
// attempt per call before the send is reported as failed.
func (r *Router) sendRemote(msg *evaluator.Msg) error {
	peer, err := r.peerFor(msg.Dest.NodeID)
	if err != nil {
		return err
	}

	env, err := msgToEnvelope(msg)
	if err != nil {
		return err
	}

	if err := peer.dial(); err != nil {
		return err
	}
	if err := r.invokeRoute(peer, env); err == nil {
		return nil
	}

	peer.markDisconnected()
	if err := peer.dial(); err != nil {
		return err
	}
	return r.invokeRoute(peer, env)
}

func (r *Router) invokeRoute(peer *Peer, env *dynamic.Message) error {
	ack := dynamic.NewMessage(routeAckMD)
	ctx := context.Background()
	return peer.Conn.Invoke(ctx, "/"+serviceName+"/"+methodName, env, ack)
}

func (r *Router) failTransport(msg *evaluator.Msg, cause error) {
	if msg.PromiseID == 0 {
		log.Printf("router: transport failure to node %d: %v", msg.Dest.NodeID, cause)
		return
	}
	if v, ok := r.localVat(msg.Source.VatID); ok && msg.Source.NodeID == r.nodeID {
		v.Deliver(&evaluator.Msg{
			Dest:      msg.Source,
			Source:    msg.Dest,
			PromiseID: msg.PromiseID,
			Response:  true,
			Err:       &evaluator.RuntimeError{Kind: evaluator.ErrTransportFailed, Message: cause.Error()},
		})
	}
}

// --- inbound: gRPC server side ---

// Serve starts the gRPC listener for this node's Transport service and
// blocks until the listener errors or is stopped.
func (r *Router) Serve(listenAddr string) error {
	lis, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	r.server = grpc.NewServer()
	r.server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*interface{})(nil),
		Methods: []grpc.MethodDesc{{
			MethodName: methodName,
			Handler:    r.handleRoute,
		}},
		Metadata: protoFilename,
	}, r)
	return r.server.Serve(lis)
}

func (r *Router) Stop() {
	if r.server != nil {
		r.server.GracefulStop()
	}
}

func (r *Router) handleRoute(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	env := dynamic.NewMessage(envelopeMD)
	if err := dec(env); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decoding envelope: %v", err)
	}
	r.onReceive(env)
	return dynamic.NewMessage(routeAckMD), nil
}

// onReceive implements on_receive(packet): deserialize and enqueue on
// the addressed local vat's inbound queue, dropping (with a log) if
// the vat id is unknown on this node.
func (r *Router) onReceive(env *dynamic.Message) {
	msg, err := envelopeToMsg(env)
	if err != nil {
		log.Printf("router: failed to decode inbound envelope: %v", err)
		return
	}
	v, ok := r.localVat(msg.Dest.VatID)
	if !ok {
		log.Printf("router: dropping inbound message for unknown vat %d", msg.Dest.VatID)
		return
	}
	v.Deliver(msg)
}
