package main

import (
	"fmt"
	"os"

	"salesdw/internal/cli"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "salesdw/internal/storage/all"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
