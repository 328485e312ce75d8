package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aussiebroadwan/remotesign/internal/signer/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "remotesign: %v\n", err)
		os.Exit(1)
	}
}
