package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/doeshing/pyfuturist/internal/infrastructure/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := cli.Options{Verbose: isVerbose()}

	root, container, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	err = root.ExecuteContext(ctx)
	_ = container.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("PYFUTURIST_DEBUG"), "1") || strings.EqualFold(os.Getenv("PYFUTURIST_DEBUG"), "true")
}
