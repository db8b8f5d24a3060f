package addrbook

import (
	"github.com/larkmail/go-addrbook/rfc822"
)

// Alias binds a short name to a list of addresses, with an optional
// free-text comment and tags. Names are unique within a Book, compared
// case-insensitively.
//
// Once an alias is in a Book, mutate it through Book.Edit so the reverse
// index and any open views stay in sync.
type Alias struct {
	Name    string
	Addr    rfc822.AddressList
	Comment string
	Tags    []string
}
