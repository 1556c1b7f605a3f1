package core

import (
	"os"
	"os/signal"
)

// holdInterrupts stops SIGINT from killing the shell until release is
// called. The terminal sends Ctrl-C to the whole foreground process group,
// and a caught signal reverts to its default in exec'd children, so running
// commands are still interrupted.
func holdInterrupts() (release func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	return func() {
		signal.Stop(sigs)
	}
}
