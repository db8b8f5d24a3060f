package addrbook

import "strings"

// AliasView is one row of a View: an alias plus its presentation state.
// Num is the row's position after the last sort; OrigSeq records the order
// the row entered the view and breaks sort-key ties, so equal keys keep a
// stable relative order.
type AliasView struct {
	Num     int
	OrigSeq int
	Tagged  bool
	Deleted bool
	Visible bool
	Alias   *Alias
}

// SortKey selects what an alias menu sorts by.
type SortKey int

const (
	SortName    SortKey = iota // alias name, case-insensitive
	SortAddress                // first address: personal if set, else mailbox
	SortUnsorted               // the order rows entered the view
)

// ParseSort maps a sort_alias option value to a key and direction.
// Unrecognized values sort by name.
func ParseSort(s string) (SortKey, bool) {
	reverse := strings.HasPrefix(s, "reverse-")

	switch strings.TrimPrefix(s, "reverse-") {
	case "address":
		return SortAddress, reverse

	case "unsorted", "order":
		return SortUnsorted, reverse

	default:
		return SortName, reverse
	}
}
