package addrbook

import (
	"strings"

	"github.com/bradenaw/juniper/xslices"
)

// Completion classifies the outcome of tab-completing an alias name.
type Completion int

const (
	// CompletionNone means there was nothing to complete against.
	CompletionNone Completion = iota

	// CompletionExtended means the buffer was extended in place to the
	// longest prefix shared by every match.
	CompletionExtended

	// CompletionAmbiguous means several aliases match; the view lists the
	// candidates for a selection menu.
	CompletionAmbiguous
)

// Complete tab-completes the alias name prefix in buf. Prefixes match
// case-sensitively. When every match shares a longer prefix, buf is
// extended to it; otherwise the returned view has the candidates visible,
// or every alias when the prefix is empty or matches nothing. None is
// returned only when the book is empty.
func (b *Book) Complete(buf *string, reg *Registry) (Completion, *View) {
	if b.Len() == 0 {
		return CompletionNone, nil
	}

	prefix := *buf

	matches := xslices.Filter(b.Aliases(), func(a *Alias) bool {
		return strings.HasPrefix(a.Name, prefix)
	})

	if prefix != "" && len(matches) > 0 {
		best := matches[0].Name

		for _, a := range matches[1:] {
			best = commonPrefix(best, a.Name)
		}

		if best != prefix {
			*buf = best
			return CompletionExtended, nil
		}
	}

	view := NewView(b, reg)

	if prefix != "" && len(matches) > 0 {
		view.Limit(func(a *Alias) bool { return strings.HasPrefix(a.Name, prefix) })
	}

	return CompletionAmbiguous, view
}

// CompleteWithMenu runs Complete and, when the result is ambiguous, lets
// the user pick rows from the menu. Tagged rows win over the cursor
// selection; the picked addresses replace buf in display form. A cancelled
// menu picks nothing. Rows marked deleted during the session are removed
// from the book afterwards, picked or not. Reports whether buf now holds a
// completion.
func (b *Book) CompleteWithMenu(buf *string, reg *Registry, ui UI) bool {
	result, view := b.Complete(buf, reg)

	switch result {
	case CompletionNone:
		ui.Error("You have no aliases")
		return false

	case CompletionExtended:
		return true
	}

	defer view.Close()

	idx, ok := ui.Menu(view)

	var picked []*AliasView

	if ok {
		picked = view.Tagged()

		if len(picked) == 0 && idx >= 0 && idx < view.Len() {
			picked = []*AliasView{view.At(idx)}
		}
	}

	if len(picked) > 0 {
		parts := xslices.Map(picked, func(row *AliasView) string {
			return row.Alias.Addr.Write(true)
		})

		*buf = strings.Join(parts, ", ")
	}

	view.Commit()

	return len(picked) > 0
}

// commonPrefix returns the longest shared byte prefix of a and b.
func commonPrefix(a, b string) string {
	i := 0

	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}

	return a[:i]
}
