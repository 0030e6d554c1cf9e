package main

import (
	"os"

	"github.com/huskvm/husk/handle"
	"github.com/spf13/cobra"

	"github.com/huskvm/husk/asm"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run bootstrap-file",
		Short: "assemble and run a bootstrap file to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := runBootstrap(args[0])
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
}

// runBootstrap assembles the named file, runs it on a fresh runtime
// wired to the process's real stdio, and returns the exit code spec.md
// §6 specifies.
func runBootstrap(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		return fatalCondition(err)
	}

	rt := newRuntime(false, nil)
	prog, err := asm.New(rt.g, rt.symtab, rt.lattice).Assemble(string(src))
	if err != nil {
		return fatalCondition(err)
	}

	in := handle.WrapFile("<stdin>", os.Stdin, "r")
	out := handle.WrapFile("<stdout>", os.Stdout, "w")
	errH := handle.WrapFile("<stderr>", os.Stderr, "w")
	defer out.Flush()

	th := rt.newThread(in, out, errH)
	if err := rt.newVM(prog, th).Run(); err != nil {
		return fatalCondition(err)
	}
	return 0
}
