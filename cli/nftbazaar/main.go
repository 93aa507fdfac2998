package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nftbazaar-org/nftbazaar/cli/nftbazaar/cmd"
)

func main() {
	if err := cmd.New().Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "nftbazaar: %v\n", err)
		os.Exit(1)
	}
}
