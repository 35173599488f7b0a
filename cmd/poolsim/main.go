package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/paw-chain/pawpool/app"
	"github.com/paw-chain/pawpool/cmd/poolsim/cmd"
)

func main() {
	app.SetConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
