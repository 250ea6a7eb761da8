// Package flake renders the environment descriptor: the top-level
// flake.nix plus the supporting files under the state directory. Rendering
// is a pure function of the resolved entries, so output is byte-stable.
package flake

import (
	"fmt"
	"strings"
)

// EscapeString escapes a value for use inside a double-quoted Nix string.
// Backslash, quote, newline, carriage return, and tab are escaped, and a
// "${" sequence is defused so it cannot interpolate.
func EscapeString(input string) string {
	var sb strings.Builder
	sb.Grow(len(input))

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		switch ch := runes[i]; ch {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '$':
			if i+1 < len(runes) && runes[i+1] == '{' {
				sb.WriteString(`\$`)
			} else {
				sb.WriteRune(ch)
			}
		default:
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// writeStringBinding emits `name = "value";` with escaping.
func writeStringBinding(sb *strings.Builder, indent, name, value string) {
	fmt.Fprintf(sb, "%s%s = \"%s\";\n", indent, name, EscapeString(value))
}

// writeAttrFallback emits a binding that resolves to the wanted attribute
// when the package scope has it, and to the fallback name otherwise.
func writeAttrFallback(sb *strings.Builder, indent, bindName, wantVar, scope, fallback string) {
	fmt.Fprintf(sb, "%s%s = if builtins.hasAttr %s %s then %s else \"%s\";\n",
		indent, bindName, wantVar, scope, wantVar, EscapeString(fallback))
}

// writeNoticeList emits the notices binding, empty or with one message.
func writeNoticeList(sb *strings.Builder, indent, notice string) {
	if notice == "" {
		fmt.Fprintf(sb, "%snotices = [];\n", indent)
		return
	}
	fmt.Fprintf(sb, "%snotices = [\n", indent)
	fmt.Fprintf(sb, "%s  \"%s\"\n", indent, EscapeString(notice))
	fmt.Fprintf(sb, "%s];\n", indent)
}

// fileHeader is the first line of every generated file.
func fileHeader(description string) string {
	return fmt.Sprintf("# Generated by devflake\n# %s\n", description)
}
