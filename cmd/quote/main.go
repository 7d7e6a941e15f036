package main

import (
	"fmt"
	"os"

	"storefront-checkout/internal/cli"
)

func main() {
	if err := cli.NewQuoteCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
