package parse

import "strings"

// FlagIndex returns the index of the first case-insensitive match of flag
// in args, or -1. Callers remove the matched token before positional
// parsing.
func FlagIndex(args []string, flag string) int {
	for i, arg := range args {
		if strings.EqualFold(arg, flag) {
			return i
		}
	}
	return -1
}

// RemoveAt returns args without the element at index i. The input slice is
// left untouched.
func RemoveAt(args []string, i int) []string {
	if i < 0 || i >= len(args) {
		return args
	}
	out := make([]string, 0, len(args)-1)
	out = append(out, args[:i]...)
	return append(out, args[i+1:]...)
}
