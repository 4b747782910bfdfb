package stacktrace

import "strings"

// InternalPaths extracts the file:line references of this module's internal
// packages from a raw debug.Stack dump. Used by panic handlers to log a short,
// readable trace instead of the full runtime stack.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")

	var paths []string
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		idx := strings.Index(line, ".go:")
		if idx == -1 {
			continue
		}

		start := strings.Index(line, "/internal/")
		if start == -1 {
			continue
		}

		end := strings.IndexByte(line[idx:], ' ')
		if end == -1 {
			end = len(line)
		} else {
			end += idx
		}

		paths = append(paths, line[start+1:end])
	}

	return paths
}
