package rfc822

import (
	"errors"
	"strings"
)

// AddressSpecials is the set of characters with structural meaning in an
// address list. A phrase containing any of them must be quoted when written
// in transport form.
const AddressSpecials = `@.,:;<>[]\"()`

var (
	ErrMismatchedParens = errors.New("rfc822: mismatched parenthesis")
	ErrMismatchedQuotes = errors.New("rfc822: mismatched quotes")
	ErrBadRoute         = errors.New("rfc822: bad route in <>")
	ErrBadRouteAddr     = errors.New("rfc822: bad address in <>")
)

// Parse parses a comma-separated address list into an AddressList. It
// understands quoted phrases, nested parenthesised comments, route
// addresses and group syntax; a group contributes a header entry, its
// members, and a zero terminator entry. A comment next to an address that
// has no display name is salvaged as its Personal. On malformed input the
// whole parse fails and the list is empty.
func Parse(s string) (AddressList, error) {
	var (
		al      AddressList
		phrase  strings.Builder
		comment strings.Builder
	)

	p := &parser{s: s}

	wsPending := len(s) > 0 && isEmailWSP(s[0])

	p.pos = skipEmailWSP(s, 0)

	for p.pos < len(s) {
		switch s[p.pos] {
		case ',':
			if phrase.Len() > 0 {
				addAddrSpec(&al, phrase.String(), &comment)
			} else if last := al.last(); comment.Len() > 0 && last != nil && last.Personal == "" {
				last.Personal = comment.String()
			}

			phrase.Reset()
			comment.Reset()
			p.pos++

		case '(':
			if comment.Len() > 0 {
				comment.WriteByte(' ')
			}

			if err := p.nextToken(&comment); err != nil {
				return nil, err
			}

		case '"':
			if phrase.Len() > 0 {
				phrase.WriteByte(' ')
			}

			p.pos++

			if err := p.quote(&phrase); err != nil {
				return nil, err
			}

		case ':':
			al = append(al, &Address{Mailbox: phrase.String(), Group: true})

			phrase.Reset()
			comment.Reset()
			p.pos++

		case ';':
			if phrase.Len() > 0 {
				addAddrSpec(&al, phrase.String(), &comment)
			} else if last := al.last(); comment.Len() > 0 && last != nil && last.Personal == "" {
				last.Personal = comment.String()
			}

			// Terminate the group's member run.
			if len(al) > 0 {
				al = append(al, &Address{})
			}

			phrase.Reset()
			comment.Reset()
			p.pos++

		case '<':
			addr := &Address{Personal: phrase.String()}

			p.pos++

			if err := p.routeAddr(&comment, addr); err != nil {
				return nil, err
			}

			al = append(al, addr)

			phrase.Reset()
			comment.Reset()

		default:
			if phrase.Len() > 0 && wsPending {
				phrase.WriteByte(' ')
			}

			if err := p.nextToken(&phrase); err != nil {
				return nil, err
			}
		}

		wsPending = p.pos < len(s) && isEmailWSP(s[p.pos])

		p.pos = skipEmailWSP(s, p.pos)
	}

	if phrase.Len() > 0 {
		addAddrSpec(&al, phrase.String(), &comment)
	} else if last := al.last(); comment.Len() > 0 && last != nil && last.Personal == "" {
		last.Personal = comment.String()
	}

	return al, nil
}

// ParseRelaxed is Parse, except that input containing none of the special
// characters may also separate addresses with bare whitespace. Alias files
// have always permitted "alias crew alice@x bob@y".
func ParseRelaxed(s string) (AddressList, error) {
	if strings.ContainsAny(s, `"<>():;,\`) {
		return Parse(s)
	}

	var al AddressList

	for _, field := range strings.Fields(s) {
		part, err := Parse(field)
		if err != nil {
			return nil, err
		}

		al = append(al, part...)
	}

	return al, nil
}

type parser struct {
	s   string
	pos int
}

func isSpecial(c byte) bool {
	return strings.IndexByte(AddressSpecials, c) >= 0
}

func isEmailWSP(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func skipEmailWSP(s string, i int) int {
	for i < len(s) && isEmailWSP(s[i]) {
		i++
	}

	return i
}

// comment consumes a parenthesised comment, the opening paren already
// eaten. Nested parens are kept, the outermost pair is not.
func (p *parser) comment(out *strings.Builder) error {
	level := 1

	for p.pos < len(p.s) {
		c := p.s[p.pos]

		switch c {
		case '(':
			level++

		case ')':
			level--
			if level == 0 {
				p.pos++
				return nil
			}

		case '\\':
			p.pos++
			if p.pos >= len(p.s) {
				return ErrMismatchedParens
			}

			c = p.s[p.pos]
		}

		out.WriteByte(c)
		p.pos++
	}

	return ErrMismatchedParens
}

// quote consumes a quoted string, the opening quote already eaten.
// Backslash escapes the next character.
func (p *parser) quote(out *strings.Builder) error {
	for p.pos < len(p.s) {
		c := p.s[p.pos]

		if c == '\\' {
			p.pos++
			if p.pos >= len(p.s) {
				break
			}

			out.WriteByte(p.s[p.pos])
			p.pos++

			continue
		}

		if c == '"' {
			p.pos++
			return nil
		}

		out.WriteByte(c)
		p.pos++
	}

	return ErrMismatchedQuotes
}

// nextToken consumes the next word: a comment, a quoted string, a single
// special character, or a run of plain characters.
func (p *parser) nextToken(out *strings.Builder) error {
	switch c := p.s[p.pos]; {
	case c == '(':
		p.pos++
		return p.comment(out)

	case c == '"':
		p.pos++
		return p.quote(out)

	case isSpecial(c):
		out.WriteByte(c)
		p.pos++

		return nil
	}

	for p.pos < len(p.s) {
		c := p.s[p.pos]

		if isEmailWSP(c) || isSpecial(c) {
			break
		}

		out.WriteByte(c)
		p.pos++
	}

	return nil
}

// mailboxDomain consumes one side of an addr-spec, stopping at any special
// character not listed in allowed. Comments may sit before or after either
// side; they accumulate separately from the address text.
func (p *parser) mailboxDomain(allowed string, mailbox, comment *strings.Builder) error {
	for p.pos < len(p.s) {
		p.pos = skipEmailWSP(p.s, p.pos)
		if p.pos >= len(p.s) {
			return nil
		}

		c := p.s[p.pos]

		if strings.IndexByte(allowed, c) < 0 && isSpecial(c) {
			return nil
		}

		if c == '(' {
			if comment.Len() > 0 {
				comment.WriteByte(' ')
			}

			if err := p.nextToken(comment); err != nil {
				return err
			}
		} else if err := p.nextToken(mailbox); err != nil {
			return err
		}
	}

	return nil
}

// address consumes local@domain into addr.Mailbox. A trailing comment
// becomes the personal name if the address has none.
func (p *parser) address(token, comment *strings.Builder, addr *Address) error {
	if err := p.mailboxDomain(`."(\`, token, comment); err != nil {
		return err
	}

	if p.pos < len(p.s) && p.s[p.pos] == '@' {
		token.WriteByte('@')
		p.pos++

		if err := p.mailboxDomain(`.([]\`, token, comment); err != nil {
			return err
		}
	}

	addr.Mailbox = token.String()

	if comment.Len() > 0 && addr.Personal == "" {
		addr.Personal = comment.String()
	}

	return nil
}

// routeAddr consumes an angle-bracketed address, the '<' already eaten. An
// optional source route "@a,@b:" is folded into the mailbox.
func (p *parser) routeAddr(comment *strings.Builder, addr *Address) error {
	var token strings.Builder

	p.pos = skipEmailWSP(p.s, p.pos)

	if p.pos < len(p.s) && p.s[p.pos] == '@' {
		for p.pos < len(p.s) && p.s[p.pos] == '@' {
			token.WriteByte('@')
			p.pos++

			if err := p.mailboxDomain(`,.\[](`, &token, comment); err != nil {
				return err
			}
		}

		if p.pos >= len(p.s) || p.s[p.pos] != ':' {
			return ErrBadRoute
		}

		token.WriteByte(':')
		p.pos++
	}

	if err := p.address(&token, comment, addr); err != nil {
		return err
	}

	if p.pos >= len(p.s) || p.s[p.pos] != '>' {
		return ErrBadRouteAddr
	}

	p.pos++

	return nil
}

// addAddrSpec parses an accumulated phrase as a bare addr-spec and appends
// the result. A phrase that does not parse is dropped without failing the
// surrounding list.
func addAddrSpec(al *AddressList, phrase string, comment *strings.Builder) {
	q := &parser{s: phrase}

	var (
		token strings.Builder
		addr  Address
	)

	if err := q.address(&token, comment, &addr); err != nil {
		return
	}

	if q.pos < len(q.s) && q.s[q.pos] != ',' && q.s[q.pos] != ';' {
		return
	}

	*al = append(*al, &addr)
}
