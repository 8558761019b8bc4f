package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
	"todo/internal/task"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todo` (no args) and `todo list`.
type ListCmd struct {
	overdue bool
	pending bool
}

// SetFilters sets the --overdue and --pending filters (for testing).
func (c *ListCmd) SetFilters(overdue, pending bool) {
	c.overdue = overdue
	c.pending = pending
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "todo list [--overdue] [--pending]" }
func (c *ListCmd) NeedsBackend() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.overdue, "overdue", false, "")
	fs.BoolVar(&c.pending, "pending", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	st := newStore(cfg, svc, errOut)
	if err := st.Load(ctx); err != nil {
		return reportRemote(errOut, 0, err)
	}

	current := now()
	var shown []task.Task
	for _, t := range st.List() {
		if c.pending && t.IsCompleted {
			continue
		}
		if c.overdue && !task.IsOverdue(t, current) {
			continue
		}
		shown = append(shown, t)
	}

	output.NewFormatter(out, cfg.UI.Color).Tasks(shown, current, cfg.Quiet)
	return exitcode.Success
}
