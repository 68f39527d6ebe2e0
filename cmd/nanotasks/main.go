// Command nanotasks manages a personal task list from the command line, a
// local web page or a terminal UI.
package main

import (
	"os"
)

func main() {
	if err := NewCLI().Execute(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
