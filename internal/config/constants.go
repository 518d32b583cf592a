package config

// SourceFileExt is the canonical extension for a module source file.
const SourceFileExt = ".pleroma"

// SourceFileExtensions are all recognized source file extensions,
// kept plural to mirror how the lineage of this toolchain accepts
// more than one spelling.
var SourceFileExtensions = []string{".pleroma", ".plr"}

// TrimSourceExt removes any recognized source extension from a
// filename. Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if path ends with any recognized source
// extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// DefaultPort is the router's fixed transport port absent an
// override in NodeConfig.
const DefaultPort = 1234

// DefaultDataDir is where a node keeps its local filesystem database
// when NodeConfig.DataDir is left unset.
const DefaultDataDir = ".pleroma"

// Kernel entity and method names, mirrored by internal/kernel.
const (
	MonadEntityName = "Monad"
	IoEntityName    = "Io"
	NetEntityName   = "Net"
	FsEntityName    = "Fs"

	MainMethodName         = "main"
	StartProgramMethodName = "start-program"
	NProgramsMethodName    = "n-programs"
)
