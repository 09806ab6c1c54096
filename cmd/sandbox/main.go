// Command sandbox calls the Sandbox API from the command line.
//
//	sandbox health
//	sandbox root --base-url http://localhost:8000
//	sandbox request POST /items --data '{"name":"x"}' --param dry_run=true
//	sandbox version -o json
//
// Configuration is read from sandbox.yml, .env files and SANDBOX_*
// environment variables; flags win over all of them.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, out, errOut io.Writer) int {
	a := newApp(out, errOut)
	cmd := a.rootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(context.Background())
	a.close()
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}
