package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/referee/internal/referee/cmd"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	logrus.SetLevel(logrus.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := referee(ctx); err != nil {
		stop()
		logrus.Fatal(err)
	}
}

func referee(ctx context.Context) error {
	root := cmd.Root()
	root.SetArgs(os.Args[1:])
	return root.ExecuteContext(ctx)
}
