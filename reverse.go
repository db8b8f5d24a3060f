package addrbook

import (
	"strings"

	"github.com/larkmail/go-addrbook/rfc822"
)

// ReverseIndex maps a mailbox to the address an alias stores for it, so
// mail from that mailbox can be displayed with the name the user chose.
// Keys are the lowercased IDN A-label form of the mailbox.
//
// When several stored addresses share a mailbox, the most recently inserted
// owns the key. Deleting the owner clears the key outright; an earlier
// claim is not restored.
type ReverseIndex struct {
	byMailbox map[string]*rfc822.Address
}

func NewReverseIndex() *ReverseIndex {
	return &ReverseIndex{byMailbox: make(map[string]*rfc822.Address)}
}

// Insert claims the address's mailbox, superseding any current owner.
// Group headers and terminators carry no mailbox and are ignored.
func (ri *ReverseIndex) Insert(addr *rfc822.Address) {
	if addr.Group || addr.Mailbox == "" {
		return
	}

	ri.byMailbox[reverseKey(addr.Mailbox)] = addr
}

// Delete clears the address's claim on its mailbox. The key is removed
// only if addr itself is the current owner.
func (ri *ReverseIndex) Delete(addr *rfc822.Address) {
	if addr.Group || addr.Mailbox == "" {
		return
	}

	key := reverseKey(addr.Mailbox)

	if ri.byMailbox[key] == addr {
		delete(ri.byMailbox, key)
	}
}

// Lookup returns the owning address for a mailbox, or nil.
func (ri *ReverseIndex) Lookup(mailbox string) *rfc822.Address {
	return ri.byMailbox[reverseKey(mailbox)]
}

func (ri *ReverseIndex) Len() int {
	return len(ri.byMailbox)
}

// reverseKey normalizes a mailbox for index lookups. Mailboxes that cannot
// be converted to A-label form are keyed as-is, so a bad domain can still
// be matched against itself.
func reverseKey(mailbox string) string {
	intl, err := rfc822.IntlForm(mailbox)
	if err != nil {
		intl = mailbox
	}

	return strings.ToLower(intl)
}
