package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"fjacquet/camt-qif/cmd/accounts"
	"fjacquet/camt-qif/cmd/convert"
	"fjacquet/camt-qif/cmd/root"
	"fjacquet/camt-qif/cmd/validate"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(validate.Cmd)
	root.Cmd.AddCommand(accounts.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}
