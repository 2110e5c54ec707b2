package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oehrlis/odb-datasafe-sub000/cmd/odsctl/cmd"
	"github.com/oehrlis/odb-datasafe-sub000/internal/core"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)

	// Transient credential material is scrubbed on every exit path.
	core.DefaultJanitor.Drain()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(core.ExitCodeFor(err))
	}
}
