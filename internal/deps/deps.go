// Package deps resolves the external executables easyanki shells out to.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Requirement names an external executable and what easyanki needs it for.
type Requirement struct {
	Name    string
	Command string
	Purpose string
}

// Status is the resolved state of one Requirement.
type Status struct {
	Name      string
	Command   string
	Purpose   string
	Path      string
	Available bool
	Detail    string
}

// CheckBinaries resolves every requirement. Available statuses carry the
// absolute path in Path; unavailable ones explain why in Detail.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		st := Status{
			Name:    req.Name,
			Command: strings.TrimSpace(req.Command),
			Purpose: strings.TrimSpace(req.Purpose),
		}
		switch path, ok := ResolveCommand(st.Command); {
		case st.Command == "":
			st.Detail = "command not configured"
		case !ok:
			st.Detail = fmt.Sprintf("%q not found or not executable", st.Command)
		default:
			st.Path = path
			st.Available = true
		}
		results = append(results, st)
	}
	return results
}

// ResolveCommand returns the absolute path of command. Commands given as a
// path must point at an executable file; bare names are looked up on PATH.
// When resolution fails the trimmed command is returned with ok false.
func ResolveCommand(command string) (string, bool) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", false
	}
	if !strings.ContainsRune(command, filepath.Separator) {
		resolved, err := exec.LookPath(command)
		if err != nil {
			return command, false
		}
		return resolved, true
	}
	info, err := os.Stat(command)
	if err != nil || info.IsDir() {
		return command, false
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return command, false
	}
	if abs, err := filepath.Abs(command); err == nil {
		return abs, true
	}
	return command, true
}
