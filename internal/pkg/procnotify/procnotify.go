// Package procnotify signals cooperating processes that the stream has
// terminated fatally. Delivery is best-effort: a process that cannot be
// signaled is logged and skipped, and never prevents signaling the rest or
// exiting.
package procnotify

import (
	"context"
	"os"
	"syscall"

	"github.com/gabapcia/chaintail/internal/pkg/logger"
)

// NotifyAll sends SIGTERM to every pid in the list, once each, in order.
func NotifyAll(ctx context.Context, pids []int) {
	for _, pid := range pids {
		proc, err := os.FindProcess(pid)
		if err != nil {
			logger.Warn(ctx, "could not resolve process to notify", "pid", pid, "error", err)
			continue
		}

		if err := proc.Signal(syscall.SIGTERM); err != nil {
			logger.Warn(ctx, "could not notify process", "pid", pid, "error", err)
			continue
		}

		logger.Info(ctx, "notified dependent process", "pid", pid)
	}
}
