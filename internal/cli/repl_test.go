package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) List(ctx context.Context, args []string) error { return f.record("list", args) }
func (f *fakeExec) Show(ctx context.Context, args []string) error { return f.record("show", args) }
func (f *fakeExec) AddNote(ctx context.Context) error { return f.record("addnote", nil) }
func (f *fakeExec) EditNote(ctx context.Context, args []string) error {
	return f.record("editnote", args)
}
func (f *fakeExec) Delete(ctx context.Context, args []string) error { return f.record("delete", args) }
func (f *fakeExec) Categories(ctx context.Context) error { return f.record("categories", nil) }
func (f *fakeExec) AddCategory(ctx context.Context) error { return f.record("addcategory", nil) }
func (f *fakeExec) DeleteCategory(ctx context.Context, args []string) error {
	return f.record("delcategory", args)
}
func (f *fakeExec) ChangePin(ctx context.Context) error { return f.record("changepin", nil) }
func (f *fakeExec) Wipe(ctx context.Context) error { return f.record("wipe", nil) }

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	capturePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"addnote",
		"list work",
		"l",
		"show 123",
		"editnote 123",
		"delete 123",
		"categories",
		"addcategory",
		"delcategory c1",
		"changepin",
		"wipe",
		"foobar",
		"logout",
		"exit",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(input))

	assert.Equal(t, []string{
		"login", "addnote", "list", "list", "show", "editnote", "delete",
		"categories", "addcategory", "delcategory", "changepin", "wipe", "logout",
	}, exec.calls)
	assert.Equal(t, []string{"work"}, exec.args[2])
	assert.Equal(t, []string{"123"}, exec.args[4])
	assert.Equal(t, []string{"c1"}, exec.args[9])
}

func TestRunREPL_LockedRefusesSessionCommands(t *testing.T) {
	lines := capturePrintln(t)

	input := strings.NewReader("list\nwipe\nfoobar\nhelp\nquit\n")
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "locked" }, bufio.NewReader(input))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *lines, "Locked. Type 'login' first.")
	assert.Contains(t, *lines, "Unknown command: foobar")
	assert.Contains(t, *lines, lockedHelp)
	assert.Equal(t, "Bye!", (*lines)[len(*lines)-1])
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "authenticated" },
		bufio.NewReader(strings.NewReader("help\n\n   \nlist")))

	assert.Equal(t, []string{"list"}, exec.calls, "the last line without newline still runs")
	assert.Contains(t, *lines, authedHelp)
	assert.Contains(t, *lines, "notes (authenticated)> ")
}
