// Command pleroma runs a single node of the actor runtime against a
// module source file: parse, typesolve, bootstrap the kernel, start
// the module's program, then block serving the node's router.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hylic-lang/pleroma/internal/config"
	"github.com/hylic-lang/pleroma/internal/node"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: pleroma run <module-file> [-config <path>]\n")
}

func main() {
	if len(os.Args) < 2 || os.Args[1] != "run" {
		usage()
		os.Exit(1)
	}

	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a node YAML config file")
	fs.Parse(os.Args[2:])

	if fs.NArg() != 1 {
		usage()
		os.Exit(1)
	}
	modulePath := fs.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pleroma: %v\n", err)
		os.Exit(1)
	}

	n, err := node.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pleroma: %v\n", err)
		os.Exit(1)
	}
	defer n.Stop()

	if err := n.LoadModule(modulePath); err != nil {
		fmt.Fprintf(os.Stderr, "pleroma: %v\n", err)
		os.Exit(1)
	}

	if err := n.Serve(); err != nil {
		fmt.Fprintf(os.Stderr, "pleroma: %v\n", err)
		os.Exit(1)
	}
}
