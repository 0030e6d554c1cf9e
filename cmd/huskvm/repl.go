package main

import (
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/huskvm/husk/asm"
	"github.com/huskvm/husk/condition"
	"github.com/huskvm/husk/handle"
)

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "interactively assemble and run one instruction at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL()
		},
	}
}

// runREPL drives a persistent thread against one freshly-assembled,
// one-line Program per input line: the stack, frame and registers carry
// over between lines the way a real session's continuity would, even
// though each line is its own independent compiled unit.
func runREPL() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "husk> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	rt := newRuntime(true, debuggerEntry(rl))
	in := handle.NewStringReader("<stdin>", nil)
	out := handle.WrapFile("<stdout>", os.Stdout, "w")
	errH := handle.WrapFile("<stderr>", os.Stderr, "w")
	th := rt.newThread(in, out, errH)

	asmr := asm.New(rt.g, rt.symtab, rt.lattice)
	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}
		if line == "" {
			continue
		}

		prog, err := asmr.Assemble(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		th.PC = 0
		if err := rt.newVM(prog, th).Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		out.Flush()
		fmt.Printf("=> %s\n", th.Value)
	}
}

// debuggerEntry opens a nested prompt on rl once a condition escapes
// every installed trap and the default-handler registry: print the
// diagnostic, then wait for "c" to continue past it (the raise resumes
// with an unspecified value) or "q" to give up on the session entirely.
func debuggerEntry(rl *readline.Instance) condition.DebuggerEntry {
	return func(c *condition.Instance) {
		fmt.Fprintf(os.Stderr, "condition: %s\n", condition.Format(c))
		rl.SetPrompt("debug> ")
		defer rl.SetPrompt("husk> ")
		for {
			line, err := rl.Readline()
			if err != nil {
				os.Exit(1)
			}
			switch line {
			case "c":
				return
			case "q":
				os.Exit(1)
			default:
				fmt.Fprintln(os.Stderr, `type "c" to continue, "q" to quit`)
			}
		}
	}
}
