package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string       { return "toggle" }
func (c *ToggleCmd) Aliases() []string  { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string   { return "Flip a task between open and completed" }
func (c *ToggleCmd) Usage() string      { return "todo toggle <id>" }
func (c *ToggleCmd) NeedsBackend() bool { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	// The update sends the full record, so the current one is needed first.
	st := newStore(cfg, svc, errOut)
	if err := st.Load(ctx); err != nil {
		return reportRemote(errOut, id, err)
	}
	if _, ok := st.Get(id); !ok {
		fmt.Fprintf(errOut, "error: task not found: %d\n", id)
		return exitcode.UserError
	}

	if err := st.Toggle(ctx, id); err != nil {
		return reportRemote(errOut, id, err)
	}

	if !cfg.Quiet {
		t, _ := st.Get(id)
		state := "open"
		if t.IsCompleted {
			state = "completed"
		}
		fmt.Fprintf(out, "ok #%d %s\n", id, state)
	}
	return exitcode.Success
}
