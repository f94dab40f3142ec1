//go:build unix

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// notifyBackground calls fn whenever the process is suspended (SIGTSTP) or
// loses its terminal (SIGHUP). The returned function stops the handler.
func notifyBackground(ctx context.Context, fn func()) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTSTP, syscall.SIGHUP)

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		for {
			select {
			case <-sigs:
				fn()
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigs)
		cancel()
	}
}
