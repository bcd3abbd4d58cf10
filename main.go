package main

import (
	"os"

	"github.com/brandon-schabel/octoprompt-sub007/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
