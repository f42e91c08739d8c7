// Package main is the entrypoint for the socialstore service: a networked
// JSON document store with a social-graph API layered on top.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/averso/socialstore/internal/server"
)

func main() {
	if err := server.Run(context.Background(), nil); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
