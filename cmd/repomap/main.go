package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/mvp-joe/repomap/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cli.ExecuteContext(ctx)
}
