package addrbook

import (
	"strings"

	"github.com/bradenaw/juniper/xslices"
)

// QuerySource resolves a search string against an external directory,
// such as an LDAP gateway or a contact command, returning matches as
// ready-made aliases.
type QuerySource interface {
	Query(s string) ([]*Alias, error)
}

// QueryFunc adapts a plain function to the QuerySource interface.
type QueryFunc func(s string) ([]*Alias, error)

func (f QueryFunc) Query(s string) ([]*Alias, error) {
	return f(s)
}

// QueryComplete replaces buf with the addresses found by querying src for
// the buffer's contents. A single match is taken directly; multiple
// matches open a menu and the tagged rows, or failing that the cursor
// row, are joined into buf. It reports whether buf was rewritten.
func QueryComplete(buf *string, src QuerySource, reg *Registry, ui UI) bool {
	if src == nil {
		ui.Error("Query command is not defined")
		return false
	}

	results, err := src.Query(*buf)
	if err != nil {
		ui.Error("Query failed: %v", err)
		return false
	}

	switch len(results) {
	case 0:
		ui.Message("No matches")
		return false

	case 1:
		*buf = queryForm(results[0])
		return true
	}

	view := NewStaticView(results, reg)

	cursor, ok := ui.Menu(view)
	if !ok {
		return false
	}

	picked := view.Tagged()

	if len(picked) == 0 && cursor >= 0 && cursor < view.Len() {
		picked = []*AliasView{view.At(cursor)}
	}

	if len(picked) == 0 {
		return false
	}

	*buf = strings.Join(xslices.Map(picked, func(row *AliasView) string {
		return queryForm(row.Alias)
	}), ", ")

	return true
}

// queryForm renders a result's addresses for the completion buffer:
// localized IDN domains, but transport quoting, so the buffer parses back
// even when a personal name carries specials.
func queryForm(a *Alias) string {
	addrs := a.Addr.Copy()

	addrs.ToLocal()

	return addrs.Write(false)
}
