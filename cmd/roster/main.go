package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := newCLI(os.Stdout, os.Stderr)
	return c.execute(ctx, os.Args[1:])
}

// exitError prints err the way every roster command reports failures.
func exitError(c *cli, err error) int {
	fmt.Fprintf(c.stderr, "roster: %s\n", errorMessage(err))
	return 1
}
