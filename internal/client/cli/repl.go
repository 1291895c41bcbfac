package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Update(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Analyze(ctx context.Context, args []string) error
	History(ctx context.Context) error
	Show(ctx context.Context, args []string) error
}

// runREPL reads commands line by line from r and dispatches them to a.
// The loop exits on EOF, on "exit" or "quit", or when ctx is done.
//
//	Not logged in:
//	  - register [email]
//	  - login [email]
//
//	Logged in:
//	  - (l)ist | holdings
//	  - add <ticker> <quantity>
//	  - update <id> <quantity>
//	  - delete <id>
//	  - run [startDate] [endDate]
//	  - history
//	  - show <id>
//	  - logout
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("pr %s> ", statusFn()))

		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, add, update, delete, run, history, show, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx, args)

		case "login":
			cmdErr = a.Login(ctx, args)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "l", "list", "holdings":
			cmdErr = a.List(ctx)

		case "add":
			cmdErr = a.Add(ctx, args)

		case "update":
			cmdErr = a.Update(ctx, args)

		case "delete":
			cmdErr = a.Delete(ctx, args)

		case "run":
			cmdErr = a.Analyze(ctx, args)

		case "history":
			cmdErr = a.History(ctx)

		case "show":
			cmdErr = a.Show(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("error:", cmdErr)
		}
	}
}
