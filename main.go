package main

import (
	"os"

	"github.com/signalnine/toolrl/cmd"
)

func main() {
	if err := cmd.Execute(cmd.NewRootCmd(), os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
