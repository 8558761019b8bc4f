package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/store"
	"todo/internal/task"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	date string
	time string
}

// SetDeadline sets the --date and --time values (for testing).
func (c *AddCmd) SetDeadline(date, tm string) {
	c.date = date
	c.time = tm
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "todo add [--date YYYY-MM-DD] [--time HH:mm] <title...>" }
func (c *AddCmd) NeedsBackend() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.date, "date", "", "")
	fs.StringVar(&c.time, "time", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	// Check for title
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	if c.date != "" && !task.ValidDatePart(c.date) {
		fmt.Fprintf(errOut, "error: invalid date: %s (want YYYY-MM-DD)\n", c.date)
		return exitcode.UserError
	}
	if c.time != "" && !task.ValidTimePart(c.time) {
		fmt.Fprintf(errOut, "error: invalid time: %s (want HH:mm)\n", c.time)
		return exitcode.UserError
	}

	composer := task.Composer{Now: now}
	deadline := ""
	if c.date != "" {
		deadline = composer.SetDatePart(deadline, c.date)
	}
	if c.time != "" {
		deadline = composer.SetTimePart(deadline, c.time)
	}

	st := newStore(cfg, svc, errOut)
	created, err := st.Add(ctx, title, deadline)
	if err != nil {
		var verr *task.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(errOut, "error: %s\n", st.Error())
			return exitcode.UserError
		}
		var rerr *store.RemoteError
		if errors.As(err, &rerr) {
			fmt.Fprintf(errOut, "error: %s: %v\n", st.Error(), rerr.Err)
			return exitcode.BackendError
		}
		return reportRemote(errOut, 0, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok #%d\n", created.ID)
	}
	return exitcode.Success
}
