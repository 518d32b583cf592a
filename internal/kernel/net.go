package kernel

import (
	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/config"
	"github.com/hylic-lang/pleroma/internal/typesystem"
)

func (k *Kernel) buildNet() *ast.EntityDef {
	functions := map[string]*ast.FuncStmt{
		"peer-count": nativeFunc("peer-count", nil, typesystem.U8(), k.netPeerCount),
		// dial takes the numeric node id from the bootstrap peer table
		// rather than a raw host string: every address in this runtime
		// already resolves through node_id, and Net.dial is the
		// explicit counterpart to the router's lazy per-message dial.
		"dial": nativeFunc("dial",
			[]ast.Param{{Name: "node-id", Type: typesystem.U8()}},
			typesystem.U8(), k.netDial),
	}
	return &ast.EntityDef{Name: config.NetEntityName, Functions: functions}
}

func (k *Kernel) netPeerCount(rawCtx interface{}, args []ast.Node) ast.Node {
	if k.router == nil {
		return &ast.Number{Value: 0}
	}
	return &ast.Number{Value: int64(k.router.PeerCount())}
}

func (k *Kernel) netDial(rawCtx interface{}, args []ast.Node) ast.Node {
	if k.router == nil || len(args) != 1 {
		return &ast.Number{Value: 0}
	}
	n, ok := args[0].(*ast.Number)
	if !ok {
		return &ast.Number{Value: 0}
	}
	if err := k.router.Dial(uint32(n.Value)); err != nil {
		return &ast.Number{Value: 0}
	}
	return &ast.Number{Value: 1}
}
