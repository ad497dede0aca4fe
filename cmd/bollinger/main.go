package main

import (
	"os"

	"github.com/rustyeddy/bollinger/cmd/bollinger/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
