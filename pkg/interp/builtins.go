package interp

import (
	"fmt"
	"strconv"
	"strings"
)

// The builtin stubs callable from source. `say` prints directly instead
// of recursing into a function lookup; max and min honor their call
// contract and nothing more.
func defaultBuiltins() map[string]Builtin {
	return map[string]Builtin{
		"say": func(m *Machine, args []int64) (int64, error) {
			parts := make([]string, len(args))
			for i, v := range args {
				parts[i] = strconv.FormatInt(v, 10)
			}
			fmt.Fprintln(m.out, strings.Join(parts, " "))
			return 0, nil
		},
		"max": func(m *Machine, args []int64) (int64, error) {
			if len(args) == 0 {
				return 0, fmt.Errorf("max takes at least 1 argument")
			}
			best := args[0]
			for _, v := range args[1:] {
				if v > best {
					best = v
				}
			}
			return best, nil
		},
		"min": func(m *Machine, args []int64) (int64, error) {
			if len(args) == 0 {
				return 0, fmt.Errorf("min takes at least 1 argument")
			}
			best := args[0]
			for _, v := range args[1:] {
				if v < best {
					best = v
				}
			}
			return best, nil
		},
	}
}
