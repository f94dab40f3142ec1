//go:build !unix

package cli

import "context"

// notifyBackground is a no-op where no backgrounding signal exists.
func notifyBackground(_ context.Context, _ func()) func() {
	return func() {}
}
