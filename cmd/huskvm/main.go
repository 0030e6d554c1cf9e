package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "huskvm",
		Short: "husk: a tagged-value bytecode runtime",
		Long: `huskvm runs compiled husk bootstrap files against the tagged-heap
VM: the garbage collector, condition system and continuation machinery,
without a source-level reader or compiler front end.`,
		SilenceUsage: true,
	}
	root.AddCommand(runCmd(), heapCmd(), envCmd(), replCmd())
	return root
}
