package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// maxSuggestDistance is the largest edit distance still worth suggesting.
const maxSuggestDistance = 3

func suggestCommand(unknown string, commands []*Command) string {
	best := ""
	bestDistance := maxSuggestDistance + 1
	for _, cmd := range commands {
		d := levenshtein(unknown, cmd.Name)
		if closer(unknown, cmd.Name, d, best, bestDistance) {
			bestDistance = d
			best = cmd.Name
		}
	}
	return best
}

// closer reports whether candidate at distance d beats best at bestDistance.
// Ties go to the candidate sharing the longer prefix with name.
func closer(name, candidate string, d int, best string, bestDistance int) bool {
	if d != bestDistance {
		return d < bestDistance
	}
	return best != "" && commonPrefix(name, candidate) > commonPrefix(name, best)
}

func commonPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// suggestFlag returns the defined flag closest to the first undefined flag
// in args, formatted with its "--" prefix.
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") || arg == "-" || arg == "--" {
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if i := strings.IndexByte(name, '='); i >= 0 {
			name = name[:i]
		}
		if flagSet.Lookup(name) != nil {
			continue
		}

		best := ""
		bestDistance := maxSuggestDistance + 1
		flagSet.VisitAll(func(f *pflag.Flag) {
			if d := levenshtein(name, f.Name); closer(name, f.Name, d, best, bestDistance) {
				bestDistance = d
				best = f.Name
			}
		})
		if best == "" {
			return ""
		}
		return "--" + best
	}
	return ""
}

// levenshtein returns the edit distance between a and b.
func levenshtein(a, b string) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	prev := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(b); j++ {
		cur := make([]int, len(a)+1)
		cur[0] = j
		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[i] = min(prev[i]+1, cur[i-1]+1, prev[i-1]+cost)
		}
		prev = cur
	}
	return prev[len(a)]
}
