package condition

import (
	"github.com/huskvm/husk/handle"
	"github.com/huskvm/husk/value"
)

// DebuggerEntry is invoked by the default handler for an interactive
// session once a condition reaches it unhandled. It is supplied by the
// command-line front end (the only place a line editor is wired in) so
// this package never imports a REPL implementation.
type DebuggerEntry func(c *Instance)

// DefaultHandler is the process-wide fallback consulted when a raise
// finds no matching trap: first the Registry, then either the
// interactive debugger continuation or a re-raise, depending on
// Interactive.
type DefaultHandler struct {
	Registry    *Registry
	Krun        *KrunStack
	Diagnostics *handle.Handle
	Interactive bool
	Debugger    DebuggerEntry
}

// NewDefaultHandler returns a default handler writing diagnostics to out.
func NewDefaultHandler(out *handle.Handle, interactive bool) *DefaultHandler {
	return &DefaultHandler{
		Registry:    NewRegistry(),
		Krun:        &KrunStack{},
		Diagnostics: out,
		Interactive: interactive,
	}
}

// Handle implements the default-condition-handler: consult the registry;
// otherwise, for an interactive session, print the diagnostic and enter
// the debugger continuation; otherwise re-raise as a Go error.
func (d *DefaultHandler) Handle(continuable bool, c *Instance) (value.Reference, error) {
	if fn, ok := d.Registry.Lookup(c); ok {
		return fn(c)
	}
	if d.Interactive {
		if d.Diagnostics != nil {
			d.Diagnostics.Print(Format(c))
			d.Diagnostics.Flush()
		}
		if d.Debugger != nil {
			d.Debugger(c)
		}
		return value.Unspec, nil
	}
	if !continuable {
		return value.Nil, c
	}
	return value.Nil, ErrUnhandledContinuable
}

// Resume actually performs the non-local jump a krun entry describes
// (restoring the continuation's stack and registers); it is supplied by
// the vm/thread packages, since only they know how to restore a
// continuation.
type Resume func(KrunEntry) (value.Reference, error)

// RestartHandler pops the most recent krun entry and resumes it. With an
// empty krun stack the condition itself is returned, since there is
// nothing left to restart to.
func RestartHandler(k *KrunStack, resume Resume) Handler {
	return func(c *Instance) (value.Reference, error) {
		entry, ok := k.PopOne()
		if !ok {
			return value.Nil, c
		}
		return resume(entry)
	}
}

// ResetHandler drains the krun stack and resumes its bottom-most entry;
// with an empty stack it returns the condition, leaving a
// wholesale thread reset to the caller.
func ResetHandler(k *KrunStack, resume Resume) Handler {
	return func(c *Instance) (value.Reference, error) {
		entry, ok := k.DrainToBottom()
		if !ok {
			return value.Nil, c
		}
		return resume(entry)
	}
}
