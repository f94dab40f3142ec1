package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	AddNote(ctx context.Context) error
	EditNote(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Categories(ctx context.Context) error
	AddCategory(ctx context.Context) error
	DeleteCategory(ctx context.Context, args []string) error
	ChangePin(ctx context.Context) error
	Wipe(ctx context.Context) error
}

const (
	lockedHelp = "Available commands: help, login, exit"
	authedHelp = "Available commands: (l)ist [category], show <id>, addnote, editnote <id>, delete <id>, " +
		"categories, addcategory, delcategory <id>, changepin, wipe, logout, exit"
)

// runREPL reads commands from reader and dispatches them to a until EOF or
// "exit"/"quit". Commands that need a session are refused while locked.
// Handler errors are reported by the handlers themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("notes (%s)> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(authedHelp)
			} else {
				printlnFn(lockedHelp)
			}
			continue
		case "login":
			_ = a.Login(ctx)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			if isSessionCommand(cmd) {
				printlnFn("Locked. Type 'login' first.")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "l", "list":
			_ = a.List(ctx, args)
		case "show":
			_ = a.Show(ctx, args)
		case "addnote":
			_ = a.AddNote(ctx)
		case "editnote":
			_ = a.EditNote(ctx, args)
		case "delete":
			_ = a.Delete(ctx, args)
		case "categories":
			_ = a.Categories(ctx)
		case "addcategory":
			_ = a.AddCategory(ctx)
		case "delcategory":
			_ = a.DeleteCategory(ctx, args)
		case "changepin":
			_ = a.ChangePin(ctx)
		case "wipe":
			_ = a.Wipe(ctx)
		case "logout":
			_ = a.Logout(ctx)
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func isSessionCommand(cmd string) bool {
	switch cmd {
	case "l", "list", "show", "addnote", "editnote", "delete", "categories",
		"addcategory", "delcategory", "changepin", "wipe", "logout":
		return true
	}
	return false
}
