package cli

import (
	"context"
	"time"
)

// StartInactivityWatcher locks an idle session every interval until ctx is
// done.
func (a *App) StartInactivityWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if a.svc.Auth.CheckInactivity() {
				printlnFn()
				hint(a.out, "Locked after inactivity. Type 'login' to continue.")
			}
		case <-ctx.Done():
			return
		}
	}
}
