package main

import (
	"os"

	"github.com/metaphox/mil-lang/cmd/mil/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
