package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/livefir/onprty/cmd/onprty/commands"
)

// Version information (can be overridden at build time with -ldflags)
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error

	switch command {
	case "render":
		err = commands.Render(args)
	case "templates":
		err = commands.Templates(args)
	case "new":
		err = commands.New(args)
	case "import":
		err = commands.Import(args)
	case "sites":
		err = commands.Sites(args)
	case "edit":
		err = commands.Edit(args)
	case "serve":
		err = commands.Serve(args)
	case "publish":
		err = commands.Publish(args)
	case "unpublish":
		err = commands.Unpublish(args)
	case "config":
		err = commands.Config(args)
	case "version", "--version", "-v":
		printVersion()
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("onprty version %s\n", version)

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	rev := commit
	if rev == "unknown" {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				rev = setting.Value
			}
		}
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if rev != "" && rev != "unknown" {
		fmt.Printf("commit: %s\n", rev)
	}
	fmt.Printf("go: %s\n", info.GoVersion)
}

func printUsage() {
	fmt.Println("onprty: site document compiler")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  onprty render <file> [--template t] [--out dir]   Render a site file to static files")
	fmt.Println("  onprty templates [--format table|json|simple]     List template kits")
	fmt.Println("  onprty new <title> [--out file]                    Start a site from the blank scaffold")
	fmt.Println("  onprty import <generated.json> [--prompt p]        Store a generated site document")
	fmt.Println("  onprty sites [rm <id>]                             List or delete stored sites")
	fmt.Println("  onprty edit <id> <op> args...                      Apply an edit to a stored site")
	fmt.Println("  onprty serve <file> | --site <id> [--addr a]       Live preview (stored sites take POST /edit)")
	fmt.Println("  onprty publish <id>                                Publish a stored site")
	fmt.Println("  onprty unpublish <id>                              Remove a published site")
	fmt.Println("  onprty config <command>                            Manage configuration")
	fmt.Println("  onprty version                                     Show version information")
	fmt.Println()
	fmt.Println("Every command accepts --config <file> (default ~/.config/onprty/config.yaml).")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  onprty new \"Acme Bakery\" --out acme.json")
	fmt.Println("  onprty serve acme.json")
	fmt.Println("  onprty render acme.json --template terminal --out dist")
}
