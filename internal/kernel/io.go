package kernel

import (
	"bufio"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/config"
	"github.com/hylic-lang/pleroma/internal/typesystem"
)

var stdinReader = bufio.NewReader(os.Stdin)

func (k *Kernel) buildIo() *ast.EntityDef {
	functions := map[string]*ast.FuncStmt{
		"print": nativeFunc("print",
			[]ast.Param{{Name: "s", Type: typesystem.Str()}},
			typesystem.U8(), k.ioPrint),
		"read-line": nativeFunc("read-line",
			nil, typesystem.Str(), k.ioReadLine),
		"is-tty": nativeFunc("is-tty",
			nil, typesystem.Bool(), k.ioIsTTY),
	}
	return &ast.EntityDef{Name: config.IoEntityName, Functions: functions}
}

func (k *Kernel) ioPrint(rawCtx interface{}, args []ast.Node) ast.Node {
	if len(args) != 1 {
		return &ast.Number{Value: 0}
	}
	s, ok := args[0].(*ast.String)
	if !ok {
		return &ast.Number{Value: 0}
	}
	fmt.Println(string(s.Value))
	return &ast.Number{Value: 1}
}

func (k *Kernel) ioReadLine(rawCtx interface{}, args []ast.Node) ast.Node {
	line, err := stdinReader.ReadString('\n')
	if err != nil && line == "" {
		return &ast.String{Value: []byte{}}
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return &ast.String{Value: []byte(line)}
}

// ioIsTTY reports whether the node's standard input is attached to a
// terminal, so interactive kernel-facing tools can decide whether to
// prompt at all.
func (k *Kernel) ioIsTTY(rawCtx interface{}, args []ast.Node) ast.Node {
	return &ast.Bool{Value: isatty.IsTerminal(os.Stdin.Fd())}
}
