package addrbook

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatRow renders one view row per an alias_format template. Directives:
//
//	%a  alias name
//	%c  comment
//	%f  flags ("D" when marked deleted)
//	%n  row number, counting from 1
//	%r  addresses, display form
//	%t  "*" when tagged
//	%Y  tags, comma-joined
//
// A directive takes printf-style width and precision, so "%-12.12a" pads
// and truncates the name to twelve columns. Unknown directives pass
// through untouched.
func FormatRow(row *AliasView, format string) string {
	var b strings.Builder

	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			b.WriteByte(format[i])
			continue
		}

		i++

		start := i
		for i < len(format) && (format[i] == '-' || format[i] == '.' || (format[i] >= '0' && format[i] <= '9')) {
			i++
		}

		if i >= len(format) {
			b.WriteByte('%')
			b.WriteString(format[start:])
			break
		}

		spec, verb := format[start:i], format[i]

		var val string

		switch verb {
		case 'a':
			val = row.Alias.Name

		case 'c':
			val = row.Alias.Comment

		case 'f':
			val = " "
			if row.Deleted {
				val = "D"
			}

		case 'n':
			val = strconv.Itoa(row.Num + 1)

		case 'r':
			val = row.Alias.Addr.Write(true)

		case 't':
			val = " "
			if row.Tagged {
				val = "*"
			}

		case 'Y':
			val = row.Alias.TagString()

		case '%':
			b.WriteByte('%')
			continue

		default:
			b.WriteByte('%')
			b.WriteString(spec)
			b.WriteByte(verb)
			continue
		}

		b.WriteString(pad(val, spec))
	}

	return b.String()
}

func pad(val, spec string) string {
	if spec == "" {
		return val
	}

	return fmt.Sprintf("%"+spec+"s", val)
}
