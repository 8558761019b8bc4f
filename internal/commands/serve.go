package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"todo/internal/config"
	"todo/internal/db"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/server"
	"todo/internal/service"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	addr   string
	dbPath string
}

// SetOptions sets the --addr and --db values (for testing).
func (c *ServeCmd) SetOptions(addr, dbPath string) {
	c.addr = addr
	c.dbPath = dbPath
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Run the task service" }
func (c *ServeCmd) Usage() string      { return "todo serve [--addr <host:port>] [--db <path>]" }
func (c *ServeCmd) NeedsBackend() bool { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
	fs.StringVar(&c.dbPath, "db", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	addr := cfg.Server.Addr
	if c.addr != "" {
		addr = c.addr
	}
	dbPath := cfg.Server.DBPath
	if c.dbPath != "" {
		dbPath = c.dbPath
	}

	database, err := db.Open(dbPath)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}
	defer database.Close()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logging.New(errOut, cfg.Debug)
	if cfg.Quiet {
		logger = logging.Discard()
	}
	logger.Debug("database opened", "path", dbPath)

	if err := server.New(database, logger).Run(ctx, addr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
