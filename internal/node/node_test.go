package node

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hylic-lang/pleroma/internal/config"
)

func writeModule(t *testing.T, dir, src string) string {
	t.Helper()
	path := filepath.Join(dir, "main.pleroma")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write module: %v", err)
	}
	return path
}

func testConfig(dataDir string) *config.NodeConfig {
	return &config.NodeConfig{NodeID: 1, ListenAddr: "127.0.0.1:0", DataDir: dataDir, Peers: map[uint32]string{}}
}

func TestLoadModuleStartsDeclaredMain(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, `
actor Greeter {
	func main(x: u8): u8 {
		return x
	}
}
`)
	n, err := New(testConfig(dir))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer n.Stop()

	if err := n.LoadModule(path); err != nil {
		t.Fatalf("LoadModule: %v", err)
	}
}

func TestLoadModuleRejectsIllTypedModule(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, `
actor Greeter {
	func main(x: u8): u8 {
		return "not a u8"
	}
}
`)
	n, err := New(testConfig(dir))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer n.Stop()

	err = n.LoadModule(path)
	if err == nil {
		t.Fatalf("expected a type error, LoadModule succeeded")
	}
	if !strings.Contains(err.Error(), "type errors") {
		t.Errorf("expected a type-error wrapper, got: %v", err)
	}
}

func TestLoadModuleRequiresAMainEntity(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, `
actor Idle {
	func ping(): i64 {
		return 0
	}
}
`)
	n, err := New(testConfig(dir))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer n.Stop()

	err = n.LoadModule(path)
	if err == nil {
		t.Fatalf("expected an error for a module with no main entity")
	}
	if !strings.Contains(err.Error(), "main") {
		t.Errorf("expected the error to mention the missing main method, got: %v", err)
	}
}
