// Command hexput-console is a local debug tool: it compiles and runs
// Hexput scripts against an in-process engine with no rpcbridge
// attached. With no arguments it opens an interactive console; given a
// script path it runs (or, with -check, only compiles) that file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hexput/runtime/hexscript"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return runREPL()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return runCommand(args[1:])
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	checkOnly := fs.Bool("check", false, "only compile the script without executing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("hexput-console: script path required (or run with no arguments for the interactive console)")
	}
	scriptPath := remaining[0]
	absScriptPath, err := filepath.Abs(scriptPath)
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	src, err := os.ReadFile(absScriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	prog, err := hexscript.Parse(string(src), 0)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	if *checkOnly {
		return nil
	}

	engine := hexscript.NewEngine(hexscript.Config{})
	exec := engine.NewExecution(context.Background(), 0, nil, hexscript.NewNull())
	scope := hexscript.NewRootScope(hexscript.NewNull())
	result, err := exec.Evaluate(prog, scope)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	if !result.IsNull() {
		fmt.Println(result.String())
	}
	return nil
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s [run [flags] <script>]\n", prog)
	fmt.Fprintln(os.Stderr, "With no arguments, opens the interactive console.")
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -check")
	fmt.Fprintln(os.Stderr, "    only compile the script without executing")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
