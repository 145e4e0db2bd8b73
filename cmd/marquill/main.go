package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/krispamB/marquillapp/internal/app"
	"github.com/krispamB/marquillapp/internal/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	sessionPath := flag.String("session", "", "override session file path (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath:  *configPath,
		SessionPath: *sessionPath,
	}

	if err := app.Run(ctx, opts); err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			fmt.Fprintln(os.Stderr, "marquill: not signed in. Log in through the marquill web app and copy your session into ~/.config/marquill/session.toml.")
			return 1
		}
		fmt.Fprintf(os.Stderr, "marquill: %v\n", err)
		return 1
	}
	return 0
}
