package main

import (
	"os"

	"github.com/parkwella/parkd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
