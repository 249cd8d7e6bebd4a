package main

import (
	"os"

	"github.com/deskercise/deskercise/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
