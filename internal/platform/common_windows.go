//go:build windows

package platform

import "strings"

// windowsCommandLine renders the executable and its arguments as one
// command line string, the form the Run registry key expects.
func windowsCommandLine(executable string, args []string) string {
	fields := make([]string, 0, 1+len(args))
	fields = append(fields, quoteWindowsArg(executable))
	for _, arg := range args {
		fields = append(fields, quoteWindowsArg(arg))
	}

	return strings.Join(fields, " ")
}

// quoteWindowsArg quotes a single argument per the CommandLineToArgvW
// rules: backslashes only need doubling when they precede a quote.
func quoteWindowsArg(arg string) string {
	if arg == "" {
		return `""`
	}
	if !strings.ContainsAny(arg, " \t\n\v\"") {
		return arg
	}

	var b strings.Builder
	b.WriteByte('"')
	backslashes := 0
	for i := 0; i < len(arg); i++ {
		switch arg[i] {
		case '\\':
			backslashes++
		case '"':
			b.WriteString(strings.Repeat(`\`, backslashes*2+1))
			b.WriteByte('"')
			backslashes = 0
		default:
			b.WriteString(strings.Repeat(`\`, backslashes))
			backslashes = 0
			b.WriteByte(arg[i])
		}
	}
	b.WriteString(strings.Repeat(`\`, backslashes*2))
	b.WriteByte('"')

	return b.String()
}
