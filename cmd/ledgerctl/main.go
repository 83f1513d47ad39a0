// Command ledgerctl administers a ledger database: seeding the catalog,
// registering users, printing balance reports and exporting records.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}
	cmd := c.rootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if c.app != nil {
		if cerr := c.app.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
