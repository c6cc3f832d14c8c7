package main

import (
	"os"

	"github.com/candidly/intervu/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
