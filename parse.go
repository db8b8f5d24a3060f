package addrbook

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/larkmail/go-addrbook/rfc822"
	"github.com/sirupsen/logrus"
)

// LoadFile reads an alias file into the book. Lines ending in a backslash
// continue on the next line. Lines that fail to parse are logged and
// skipped; only I/O failures abort the load.
func LoadFile(b *Book, path string, reg *Registry) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open alias file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		logical string
		start   int
		lineno  int
	)

	flush := func() {
		line := logical
		logical = ""

		if err := ParseLine(b, line, reg); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"file": path,
				"line": start,
			}).Warn("Skipping bad alias line")
		}
	}

	for sc.Scan() {
		lineno++

		line := sc.Text()

		if logical == "" {
			start = lineno
		}

		if continued(line) {
			logical += line[:len(line)-1]
			continue
		}

		logical += line

		flush()
	}

	if logical != "" {
		flush()
	}

	if err := sc.Err(); err != nil {
		return fmt.Errorf("read alias file: %w", err)
	}

	return nil
}

// ParseLine executes one alias-file line against the book. Blank lines
// and comment lines are no-ops. The supported commands are alias and
// unalias; anything else is an error so callers can report the line.
func ParseLine(b *Book, line string, reg *Registry) error {
	sc := &lineScanner{s: strings.TrimSpace(line)}

	if sc.done() {
		return nil
	}

	cmd, err := sc.token()
	if err != nil {
		return err
	}

	switch cmd {
	case "alias":
		return parseAlias(b, sc, reg)

	case "unalias":
		return parseUnalias(b, sc)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// parseAlias handles the remainder of an alias line. Defining a name that
// already exists replaces the old entry. Group definitions are not
// supported and are skipped.
func parseAlias(b *Book, sc *lineScanner, reg *Registry) error {
	name, err := sc.token()
	if err != nil {
		return err
	}

	for name == "-group" {
		group, err := sc.token()
		if err != nil {
			return err
		}

		logrus.WithField("group", group).Debug("Ignoring alias group")

		name, err = sc.token()
		if err != nil {
			return err
		}
	}

	if name == "" {
		return errors.New("alias: missing name")
	}

	name = convertCharset(name, reg.ConfigCharset(), reg.Charset())

	value, comment := sc.rest()

	value = convertCharset(unescape(value), reg.ConfigCharset(), reg.Charset())

	addrs, err := rfc822.ParseRelaxed(value)
	if err != nil {
		return fmt.Errorf("alias %q: %w", name, err)
	}

	if len(addrs) == 0 {
		return fmt.Errorf("alias %q: %w", name, ErrEmptyAddresses)
	}

	if err := addrs.ToIntl(); err != nil {
		logrus.WithError(err).WithField("alias", name).Warn("Bad IDN in alias")
	}

	a := &Alias{Name: name, Addr: addrs}

	if comment != "" {
		comment = convertCharset(unescape(comment), reg.ConfigCharset(), reg.Charset())

		if idx := strings.LastIndex(comment, "tags:"); idx >= 0 {
			a.Tags = ParseTags(comment[idx+len("tags:"):])
			comment = strings.TrimSpace(comment[:idx])
		}

		a.Comment = comment
	}

	if existing := b.LookupAlias(a.Name); existing != nil {
		b.Remove(existing)
	}

	return b.Add(a)
}

// parseUnalias handles the remainder of an unalias line. A bare * clears
// the whole book; unknown names are ignored.
func parseUnalias(b *Book, sc *lineScanner) error {
	for {
		name, err := sc.token()
		if err != nil {
			return err
		}

		if name == "" {
			return nil
		}

		switch name {
		case "-group":
			group, err := sc.token()
			if err != nil {
				return err
			}

			logrus.WithField("group", group).Debug("Ignoring alias group")

		case "*":
			b.Clear()

		default:
			b.RemoveName(name)
		}
	}
}

// lineScanner tokenizes a single logical config line.
type lineScanner struct {
	s   string
	pos int
}

func (sc *lineScanner) skipSpace() {
	for sc.pos < len(sc.s) && (sc.s[sc.pos] == ' ' || sc.s[sc.pos] == '\t') {
		sc.pos++
	}
}

// done reports whether only whitespace or a comment remains.
func (sc *lineScanner) done() bool {
	sc.skipSpace()

	return sc.pos >= len(sc.s) || sc.s[sc.pos] == '#'
}

// token reads the next whitespace-delimited word. Single and double
// quotes group words together, backslash escapes the following byte, and
// an unquoted # ends the line.
func (sc *lineScanner) token() (string, error) {
	sc.skipSpace()

	if sc.pos >= len(sc.s) || sc.s[sc.pos] == '#' {
		return "", nil
	}

	var b strings.Builder

	for sc.pos < len(sc.s) {
		switch c := sc.s[sc.pos]; {
		case c == ' ' || c == '\t':
			sc.pos++
			return b.String(), nil

		case c == '#':
			return b.String(), nil

		case c == '\'' || c == '"':
			if err := sc.quoted(c, &b); err != nil {
				return "", err
			}

		case c == '\\' && sc.pos+1 < len(sc.s):
			b.WriteByte(sc.s[sc.pos+1])
			sc.pos += 2

		default:
			b.WriteByte(c)
			sc.pos++
		}
	}

	return b.String(), nil
}

// quoted consumes a quoted span, the opening quote included, appending
// its unescaped contents to b.
func (sc *lineScanner) quoted(quote byte, b *strings.Builder) error {
	sc.pos++

	for sc.pos < len(sc.s) {
		c := sc.s[sc.pos]

		if c == quote {
			sc.pos++
			return nil
		}

		if c == '\\' && sc.pos+1 < len(sc.s) {
			sc.pos++
			c = sc.s[sc.pos]
		}

		b.WriteByte(c)
		sc.pos++
	}

	return fmt.Errorf("unterminated %c-quote", quote)
}

// rest returns everything up to an unquoted #, plus the comment after it.
// Quote state is tracked so addresses with quoted display names keep
// their # characters.
func (sc *lineScanner) rest() (value, comment string) {
	sc.skipSpace()

	s := sc.s[sc.pos:]
	sc.pos = len(sc.s)

	var quote byte

	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\':
			i++

		case quote != 0:
			if c == quote {
				quote = 0
			}

		case c == '\'' || c == '"':
			quote = c

		case c == '#':
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
		}
	}

	return strings.TrimSpace(s), ""
}

// unescape removes one level of backslash escaping.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}

		b.WriteByte(s[i])
	}

	return b.String()
}

// continued reports whether a physical line ends with an unescaped
// backslash and so joins the next one.
func continued(line string) bool {
	n := 0

	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}

	return n%2 == 1
}
