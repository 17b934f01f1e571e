package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ferrumdb/ferrum/internal/functions"
	"github.com/ferrumdb/ferrum/internal/persistence"
	"github.com/ferrumdb/ferrum/internal/sessions"
	"github.com/ferrumdb/ferrum/internal/sqlexec"
)

// lastCommandDelimiter repeats a prior command when a line consists solely
// of repetitions of it; one "!" is the immediately preceding command, "!!"
// is two commands back, and so on (grounded on cli/mod.rs).
const lastCommandDelimiter = "!"

var engineCommands = []struct{ name, detail string }{
	{"!", "execute the last command, add more to go further back"},
	{"help", "list all available commands"},
	{"history", "list command history for this session"},
	{"corrode", "iron corrodes and so does this session when you exit"},
}

// REPL drives the interactive client loop against one Session.
type REPL struct {
	session  *sessions.Session
	executor *sqlexec.Executor
	in       *bufio.Scanner
	out      io.Writer
}

// New constructs a REPL reading from in and writing to out, with a fresh
// database registry and session.
func New(in io.Reader, out io.Writer) *REPL {
	registry := persistence.NewDatabaseRegistry()
	session := sessions.New(registry)
	executor := sqlexec.New(session, functions.NewRegistry())
	return &REPL{session: session, executor: executor, in: bufio.NewScanner(in), out: out}
}

// Run starts the loop; it returns when the user issues "corrode" or input
// is exhausted.
func (r *REPL) Run() {
	Splash()
	fmt.Fprintln(r.out, systemMessage("info", "A default database registry was created at the session level."))
	fmt.Fprintln(r.out, systemMessage("system", fmt.Sprintf(
		"Use '%s' to quit and '%s' to know all commands available.",
		highlightArgument("corrode"), highlightArgument("help"))))
	fmt.Fprintln(r.out, systemMessage("system", fmt.Sprintf(
		"New session initiated at '%s'.", highlightArgument(r.session.StartedAt().Format("2006-01-02 15:04:05")))))

	for {
		fmt.Fprintln(r.out)
		fmt.Fprint(r.out, highlightBold(fmt.Sprintf("%-6s", "ferrum"))+" > ")

		if !r.in.Scan() {
			break
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, lastCommandDelimiter) && strings.Trim(line, lastCommandDelimiter) == "" {
			steps := strings.Count(line, lastCommandDelimiter)
			entry, ok := r.session.GetLastCommand(steps - 1)
			if !ok {
				fmt.Fprintln(r.out, systemMessage("system", fmt.Sprintf("No command %s steps back.", highlightArgument(fmt.Sprint(steps)))))
				continue
			}
			line = entry.Text
		}

		r.session.AddToCommandHistory(line)

		switch line {
		case "history":
			r.showHistory()
		case "help":
			r.showHelp()
		case "exit":
			fmt.Fprintf(r.out, "did you mean '%s'?\n", highlight("corrode"))
		case "corrode":
			fmt.Fprintln(r.out, "Goodbye!")
			return
		default:
			r.runStatement(line)
		}
	}
	fmt.Fprintln(r.out, "Goodbye!")
}

func (r *REPL) runStatement(line string) {
	result, err := r.executor.Execute(line)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}

	if result.RowCount != nil {
		fmt.Fprintln(r.out, systemMessage("ferrum", fmt.Sprintf("%d row(s) processed!", *result.RowCount)))
	} else {
		fmt.Fprintln(r.out, systemMessage("ferrum", "The statement was parsed successfully!"))
	}

	if result.Table != nil {
		fmt.Fprint(r.out, formatTable(result.Table))
	}
	if result.TableNames != nil {
		for _, name := range result.TableNames {
			fmt.Fprintln(r.out, name)
		}
	}
}

func (r *REPL) showHistory() {
	for _, entry := range r.session.ShowCommandHistory(nil) {
		fmt.Fprintf(r.out, "%s  %s\n", entry.At.Format("2006-01-02 15:04:05"), entry.Text)
	}
}

func (r *REPL) showHelp() {
	fmt.Fprintln(r.out, systemMessage("info", fmt.Sprintf("Any other statements are considered %s.", highlightArgument("sql statements"))))
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%-10s %s\n", highlight("COMMAND"), "DETAILS")
	for _, cmd := range engineCommands {
		fmt.Fprintf(r.out, "%-10s %s\n", highlight(cmd.name), cmd.detail)
	}
}
