package render

import "strings"

// needsEscaping reports whether the argument contains a character the shell
// would interpret.
func needsEscaping(arg string) bool {
	return strings.ContainsAny(arg, " \\\"';&*()|<>$`")
}

// quoteArg wraps an argument in single quotes when necessary. An embedded
// single quote closes the quoting, emits an escaped quote and reopens it.
func quoteArg(arg string) string {
	if arg == "" {
		return "''"
	}
	if !needsEscaping(arg) {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

// Cmdline renders an argv as a single shell-safe command line for emission
// into a bash script.
func Cmdline(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = quoteArg(arg)
	}
	return strings.Join(quoted, " ")
}
