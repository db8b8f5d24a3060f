package addrbook

import (
	"strings"

	"github.com/bradenaw/juniper/xslices"
	"golang.org/x/exp/slices"
)

// View is an ordered window over aliases for a selection menu. Rows carry
// tag and delete marks that live only as long as the view; deletions take
// effect on the book when Commit runs.
//
// A view built over a Book stays subscribed to its bus: added aliases
// appear, removed aliases vanish, and edits or a sort_alias change trigger
// a re-sort. Call Close when the menu goes away.
type View struct {
	book  *Book
	reg   *Registry
	bus   *Bus
	obs   ObserverID
	rows  []*AliasView
	seq   int
	limit func(*Alias) bool
}

// NewView builds a view of every alias in the book and subscribes to its
// bus.
func NewView(book *Book, reg *Registry) *View {
	v := &View{book: book, reg: reg, bus: book.bus}

	for _, a := range book.Aliases() {
		v.push(a)
	}

	v.obs = v.bus.Subscribe(EventAll, v.observe)

	v.Sort()

	return v
}

// NewStaticView builds a view over a fixed set of aliases, such as the
// results of a directory query. It tracks nothing and needs no Close.
func NewStaticView(aliases []*Alias, reg *Registry) *View {
	v := &View{reg: reg}

	for _, a := range aliases {
		v.push(a)
	}

	v.Sort()

	return v
}

// Close drops the view's bus subscription.
func (v *View) Close() {
	if v.bus != nil {
		v.bus.Unsubscribe(v.obs)
	}
}

func (v *View) Len() int {
	return len(v.rows)
}

// VisibleLen counts the rows a limit leaves showing.
func (v *View) VisibleLen() int {
	return xslices.CountFunc(v.rows, func(row *AliasView) bool { return row.Visible })
}

// At returns the row at idx in current sort order.
func (v *View) At(idx int) *AliasView {
	return v.rows[idx]
}

// Rows returns the view's rows in current sort order. The slice is owned
// by the view.
func (v *View) Rows() []*AliasView {
	return v.rows
}

// Sort orders the rows per the sort_alias option. Rows with equal keys
// keep their relative OrigSeq order, in either direction.
func (v *View) Sort() {
	key, reverse := SortName, false

	if v.reg != nil {
		key, reverse = v.reg.SortAlias()
	}

	slices.SortFunc(v.rows, func(a, b *AliasView) bool {
		if c := compareRows(key, a, b); c != 0 {
			if reverse {
				return c > 0
			}

			return c < 0
		}

		return a.OrigSeq < b.OrigSeq
	})

	v.renumber()
}

// Limit restricts visibility to aliases matching pred; nil shows all rows
// again. Rows keep their order, only Visible changes.
func (v *View) Limit(pred func(*Alias) bool) {
	v.limit = pred

	for _, row := range v.rows {
		row.Visible = v.visible(row.Alias)
	}
}

// TagToggle flips the tag mark on a row and reports the new state.
func (v *View) TagToggle(idx int) bool {
	row := v.rows[idx]
	row.Tagged = !row.Tagged

	return row.Tagged
}

// Tagged returns the visible rows carrying a tag mark, in view order.
func (v *View) Tagged() []*AliasView {
	return xslices.Filter(v.rows, func(row *AliasView) bool { return row.Visible && row.Tagged })
}

// MarkDeleted sets or clears the delete mark on a row.
func (v *View) MarkDeleted(idx int, deleted bool) {
	v.rows[idx].Deleted = deleted
}

// MarkTaggedDeleted sets or clears the delete mark on every tagged row.
func (v *View) MarkTaggedDeleted(deleted bool) {
	for _, row := range v.Tagged() {
		row.Deleted = deleted
	}
}

// Commit removes every alias marked deleted from the book. The rows
// disappear from the view through the book's events.
func (v *View) Commit() {
	if v.book == nil {
		return
	}

	for _, row := range xslices.Filter(v.rows, func(row *AliasView) bool { return row.Deleted }) {
		v.book.Remove(row.Alias)
	}
}

func (v *View) push(a *Alias) {
	v.rows = append(v.rows, &AliasView{
		OrigSeq: v.seq,
		Visible: v.visible(a),
		Alias:   a,
	})

	v.seq++
}

func (v *View) visible(a *Alias) bool {
	return v.limit == nil || v.limit(a)
}

func (v *View) observe(ev Event) error {
	switch ev.Type {
	case EventNew:
		v.push(ev.Alias)
		v.Sort()

	case EventDeleted:
		if idx := xslices.IndexFunc(v.rows, func(row *AliasView) bool { return row.Alias == ev.Alias }); idx >= 0 {
			v.rows = xslices.Remove(v.rows, idx, 1)
			v.renumber()
		}

	case EventChanged:
		v.Sort()

	case EventConfig:
		if ev.Option == OptSortAlias {
			v.Sort()
		}
	}

	return nil
}

func (v *View) renumber() {
	for i, row := range v.rows {
		row.Num = i
	}
}

func compareRows(key SortKey, a, b *AliasView) int {
	switch key {
	case SortAddress:
		return strings.Compare(addressKey(a.Alias), addressKey(b.Alias))

	case SortUnsorted:
		return a.OrigSeq - b.OrigSeq

	default:
		return strings.Compare(strings.ToLower(a.Alias.Name), strings.ToLower(b.Alias.Name))
	}
}

// addressKey is what an alias sorts by in address order: the first
// address's personal name when it has one, else its mailbox.
func addressKey(a *Alias) string {
	first := a.Addr.First()
	if first == nil {
		return ""
	}

	if first.Personal != "" {
		return strings.ToLower(first.Personal)
	}

	return strings.ToLower(first.Mailbox)
}
