package main

import (
	"fmt"
	"os"
)

func run(args []string) error {
	return newApp().Run(args)
}

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
