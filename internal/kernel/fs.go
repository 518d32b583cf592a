package kernel

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/hylic-lang/pleroma/internal/ast"
	"github.com/hylic-lang/pleroma/internal/config"
	"github.com/hylic-lang/pleroma/internal/typesystem"
)

// FsStore backs the Fs kernel entity with a single-table sqlite
// database, keyed by path, rather than touching the host filesystem
// directly — every node's virtual filesystem is just a row store
// scoped to its own data directory.
type FsStore struct {
	db *sql.DB
}

func OpenFsStore(dataDir string) (*FsStore, error) {
	path := filepath.Join(dataDir, "fs.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("kernel: open fs store: %w", err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS files (
		path TEXT PRIMARY KEY,
		content BLOB NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("kernel: init fs store: %w", err)
	}
	return &FsStore{db: db}, nil
}

func (s *FsStore) Close() error {
	return s.db.Close()
}

func (s *FsStore) read(path string) (string, bool) {
	var content string
	err := s.db.QueryRow(`SELECT content FROM files WHERE path = ?`, path).Scan(&content)
	if err != nil {
		return "", false
	}
	return content, true
}

func (s *FsStore) write(path, content string) error {
	_, err := s.db.Exec(`INSERT INTO files(path, content) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET content = excluded.content`, path, content)
	return err
}

func (k *Kernel) buildFs() *ast.EntityDef {
	functions := map[string]*ast.FuncStmt{
		"read-file": nativeFunc("read-file",
			[]ast.Param{{Name: "path", Type: typesystem.Str()}},
			typesystem.Str(), k.fsReadFile),
		"write-file": nativeFunc("write-file",
			[]ast.Param{{Name: "path", Type: typesystem.Str()}, {Name: "content", Type: typesystem.Str()}},
			typesystem.U8(), k.fsWriteFile),
	}
	return &ast.EntityDef{Name: config.FsEntityName, Functions: functions}
}

func (k *Kernel) fsReadFile(rawCtx interface{}, args []ast.Node) ast.Node {
	if k.fs == nil || len(args) != 1 {
		return &ast.String{Value: []byte{}}
	}
	p, ok := args[0].(*ast.String)
	if !ok {
		return &ast.String{Value: []byte{}}
	}
	content, ok := k.fs.read(string(p.Value))
	if !ok {
		return &ast.String{Value: []byte{}}
	}
	return &ast.String{Value: []byte(content)}
}

func (k *Kernel) fsWriteFile(rawCtx interface{}, args []ast.Node) ast.Node {
	if k.fs == nil || len(args) != 2 {
		return &ast.Number{Value: 0}
	}
	p, ok1 := args[0].(*ast.String)
	c, ok2 := args[1].(*ast.String)
	if !ok1 || !ok2 {
		return &ast.Number{Value: 0}
	}
	if err := k.fs.write(string(p.Value), string(c.Value)); err != nil {
		return &ast.Number{Value: 0}
	}
	return &ast.Number{Value: 1}
}
