package main

import (
	"fmt"
	"os"

	"github.com/roach88/gametree/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil && !cli.Reported(err) {
		if _, printErr := fmt.Fprintln(os.Stderr, "gametree:", err); printErr != nil {
			os.Exit(cli.ExitFailure)
		}
	}
	os.Exit(cli.GetExitCode(err))
}
