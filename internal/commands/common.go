package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/service"
	"todo/internal/store"
)

// now is the clock used for overdue checks.
var now = time.Now

// newStore creates a store over svc. Store logs go to errOut with --debug
// and are dropped otherwise; failures are reported through exit codes.
func newStore(cfg *config.Config, svc service.Service, errOut io.Writer) *store.Store {
	logger := logging.Discard()
	if cfg.Debug {
		logger = logging.New(errOut, true)
	}
	return store.New(svc, logger)
}

// reportRemote prints a failed store call and returns its exit code.
// A missing task is the user's error; anything else is the backend's.
func reportRemote(errOut io.Writer, id int64, err error) int {
	if errors.Is(err, service.ErrNotFound) {
		fmt.Fprintf(errOut, "error: task not found: %d\n", id)
		return exitcode.UserError
	}
	var rerr *store.RemoteError
	if errors.As(err, &rerr) {
		err = rerr.Err
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}
