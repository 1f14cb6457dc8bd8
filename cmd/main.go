package main

import (
	"os"

	"holo-museum-guide/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
