package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/huskvm/husk/asm"
	"github.com/huskvm/husk/handle"
)

// heapCmd groups heap-inspection subcommands, the husk analogue of
// viewcore's overview/histogram commands: since the runtime keeps no
// persisted core dump (spec.md §6), the "dump" being inspected is
// whatever state the bootstrap file leaves the heap in when it suspends
// or runs to completion.
func heapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heap",
		Short: "inspect the heap left behind by a bootstrap run",
	}
	cmd.AddCommand(heapOverviewCmd(), heapHistogramCmd())
	return cmd
}

func runToHeap(path string) (*runtime, int, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	rt := newRuntime(false, nil)
	prog, err := asm.New(rt.g, rt.symtab, rt.lattice).Assemble(string(src))
	if err != nil {
		return nil, 0, err
	}
	in := handle.NewStringReader("<stdin>", nil)
	out, _ := handle.NewStringWriter("<stdout>")
	errH, _ := handle.NewStringWriter("<stderr>")
	th := rt.newThread(in, out, errH)
	if err := rt.newVM(prog, th).Run(); err != nil {
		return rt, 1, err
	}
	return rt, 0, nil
}

func heapOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview bootstrap-file",
		Short: "print live/allocated bytes and collection count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, code, err := runToHeap(args[0])
			if rt == nil {
				return err
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
			stats := rt.g.Stats()
			fmt.Printf("live bytes:       %d\n", stats.NBytes)
			fmt.Printf("allocated bytes:  %d\n", stats.TBytes)
			fmt.Printf("collections:      %d\n", stats.Collections)
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
}

func heapHistogramCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "histogram bootstrap-file",
		Short: "print a by-kind histogram of live heap objects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, code, err := runToHeap(args[0])
			if rt == nil {
				return err
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
			entries := rt.g.Histogram()
			sort.Slice(entries, func(i, j int) bool { return entries[i].Bytes > entries[j].Bytes })

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tCOUNT\tBYTES")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%d\t%d\n", e.Kind, e.Count, e.Bytes)
			}
			w.Flush()
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
}
