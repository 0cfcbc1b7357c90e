package main

import (
	"os"

	"github.com/hyper-light/mteval/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
