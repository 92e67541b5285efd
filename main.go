package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/cube2222/ndarray/cmd"
	"github.com/cube2222/ndarray/logs"
)

func main() {
	logs.InitializeFileLogger()
	defer logs.CloseLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cmd.Execute(ctx)
}
