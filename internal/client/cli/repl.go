package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn and printfFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printfFn  = fmt.Printf
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Add(ctx context.Context, paths []string) error
	Remove(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Upload(ctx context.Context) error
	Results(ctx context.Context) error
}

// runREPL reads commands line by line and dispatches them to a. The prompt
// is printed only when interactive is set, so piped scripts produce clean
// output. The loop ends on EOF, "exit" or "quit". Errors returned by the
// commands are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner, interactive bool) {
	for {
		if interactive {
			printfFn("s3drop %s> ", statusFn())
		}
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn("Available commands: add <path>..., remove <n>, (l)ist, upload, results, exit")
		case "add":
			err = a.Add(ctx, args)
		case "remove", "rm":
			err = a.Remove(ctx, args)
		case "l", "list":
			err = a.List(ctx)
		case "upload":
			err = a.Upload(ctx)
		case "results":
			err = a.Results(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
