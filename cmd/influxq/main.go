// Command influxq compiles structured query requests into InfluxQL.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/influxq/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cli.GetExitCode(err))
}
