package rfc822

import "strings"

// Write renders the list as a single line. In display form personal names
// are written as-is for a human reader; in transport form any personal name
// containing a special character is quoted so the result parses back.
func (al AddressList) Write(display bool) string {
	var b strings.Builder

	inGroup := false

	for i, a := range al {
		switch {
		case a.Group:
			b.WriteString(a.Mailbox)
			b.WriteString(": ")
			inGroup = true

		case inGroup && a.Empty():
			b.WriteByte(';')
			inGroup = false

			if i < len(al)-1 {
				b.WriteString(", ")
			}

		default:
			writeSingle(&b, a, display)

			if i < len(al)-1 && !(inGroup && al[i+1].Empty()) {
				b.WriteString(", ")
			}
		}
	}

	return b.String()
}

// String renders the address in display form.
func (a *Address) String() string {
	var b strings.Builder

	writeSingle(&b, a, true)

	return b.String()
}

func writeSingle(b *strings.Builder, a *Address, display bool) {
	if a.Personal == "" {
		b.WriteString(a.Mailbox)
		return
	}

	if !display && strings.ContainsAny(a.Personal, AddressSpecials) {
		writeQuoted(b, a.Personal)
	} else {
		b.WriteString(a.Personal)
	}

	b.WriteString(" <")
	b.WriteString(a.Mailbox)
	b.WriteByte('>')
}

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' || s[i] == '"' {
			b.WriteByte('\\')
		}

		b.WriteByte(s[i])
	}

	b.WriteByte('"')
}
