// Package env establishes the startup environment bindings every husk
// process begins with: PATH, PWD, IDIOLIB and IFS, derived the way a
// POSIX shell's runtime would from the host process rather than invented
// by husk itself.
package env

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// DefaultPath is used when the host environment has no PATH set.
const DefaultPath = "/bin:/usr/bin"

// DefaultIFS is the default input field separator: space, tab, newline.
const DefaultIFS = " \t\n"

// Startup is the set of environment-derived values a thread's dynamic
// bindings are seeded with at process start.
type Startup struct {
	Path    string
	PWD     string
	IDIOLIB string
	IFS     string
	Vars    map[string]string // every other inherited environment variable
}

// Load reads the host process environment and the running executable's
// path to build a Startup. execPath is normally os.Args[0]; it is taken
// as a parameter so callers can test this without a real executable.
func Load(execPath string) Startup {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			vars[kv[:i]] = kv[i+1:]
		}
	}

	path := vars["PATH"]
	if path == "" {
		path = DefaultPath
	}

	pwd := vars["PWD"]
	if cwd, err := getcwd(); err == nil {
		pwd = cwd
	}

	ifs := vars["IFS"]
	if ifs == "" {
		ifs = DefaultIFS
	}

	return Startup{
		Path:    path,
		PWD:     pwd,
		IDIOLIB: deriveIdiolib(vars["IDIOLIB"], execPath),
		IFS:     ifs,
		Vars:    vars,
	}
}

// getcwd wraps unix.Getwd, the way the runtime's environment setup asks
// the kernel directly rather than trusting a possibly-stale PWD.
func getcwd() (string, error) {
	return unix.Getwd()
}

// deriveIdiolib honors an explicit IDIOLIB, otherwise derives one from
// the executable's own path: an executable found under a "bin" directory
// implies a sibling "lib" directory holding the runtime's library code.
func deriveIdiolib(explicit, execPath string) string {
	if explicit != "" {
		return explicit
	}
	abs, err := filepath.Abs(execPath)
	if err != nil {
		return ""
	}
	dir := filepath.Dir(abs)
	if filepath.Base(dir) == "bin" {
		return filepath.Join(filepath.Dir(dir), "lib")
	}
	return filepath.Join(dir, "lib")
}
