// cmd/postgen/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "postgen",
		Short: "Inject contract tests and variations into Postman collections",
		Long: `postgen reads an OpenAPI 3 document and a Postman collection generated
from it, injects executable test scripts (contract tests, content tests),
applies request overwrites and variable assignments, expands request
variations and integration scenarios, and writes the enriched collection
back out as Postman Collection v2.1 JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newGenerateCommand())
	root.AddCommand(newVersionCommand())

	// Running without a subcommand generates, the common case.
	generate := newGenerateCommand()
	root.RunE = generate.RunE
	root.Flags().AddFlagSet(generate.Flags())

	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the postgen version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("postgen %s\n", version)
		},
	}
}
