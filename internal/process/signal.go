// pattern: Imperative Shell

package process

import (
	"os"
	"os/signal"
)

// IgnoreInterrupts installs a no-op SIGINT handler for as long as an
// interactively attached child runs. The terminal still delivers the signal
// to the child; the handler only keeps this process alive until the child
// exits. Call the returned function to restore default handling.
func IgnoreInterrupts() (restore func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
