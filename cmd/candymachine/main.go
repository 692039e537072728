// Command candymachine mints from and creates candy machines on an Aptos network.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mokshyaprotocol/candymachine-go/pkg/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := commands.NewCommand(commands.Config{})
	root.SetOut(os.Stdout)

	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
