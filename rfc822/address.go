// Package rfc822 implements the slice of RFC822 address handling needed by
// an alias book: a group-aware list parser, display and transport writers,
// and IDN conversion.
package rfc822

import (
	"strings"

	"github.com/bradenaw/juniper/xslices"
)

// Append adds addresses to the end of the list.
func (al *AddressList) Append(addrs ...*Address) {
	*al = append(*al, addrs...)
}

// Prepend adds addresses to the front of the list.
func (al *AddressList) Prepend(addrs ...*Address) {
	*al = xslices.Insert(*al, 0, addrs...)
}

// InsertBefore splices addresses in front of the element at idx. The element
// previously at idx follows the splice.
func (al *AddressList) InsertBefore(idx int, addrs ...*Address) {
	*al = xslices.Insert(*al, idx, addrs...)
}

// Delete removes the element at idx. The element that followed it takes its
// place, so idx is the natural cursor to continue iterating from.
func (al *AddressList) Delete(idx int) {
	*al = xslices.Remove(*al, idx, 1)
}

// First returns the first element of the list, or nil if the list is empty.
func (al AddressList) First() *Address {
	if len(al) == 0 {
		return nil
	}

	return al[0]
}

// Copy returns a deep copy of the list.
func (al AddressList) Copy() AddressList {
	return xslices.Map(al, (*Address).Copy)
}

// Qualify completes every bare local part in the list with the given host,
// turning "john" into "john@host". Group headers and addresses that already
// carry a domain are left alone.
func (al AddressList) Qualify(host string) {
	for _, a := range al {
		if !a.Group && a.Mailbox != "" && !strings.Contains(a.Mailbox, "@") {
			a.Mailbox += "@" + host
		}
	}
}

// Dedupe removes addresses whose mailbox already appeared earlier in the
// list, comparing case-insensitively. The first occurrence wins. Group
// headers and terminators are kept.
func (al *AddressList) Dedupe() {
	seen := make(map[string]struct{}, len(*al))

	kept := (*al)[:0]

	for _, a := range *al {
		if a.Group || a.Mailbox == "" {
			kept = append(kept, a)
			continue
		}

		key := strings.ToLower(a.Mailbox)

		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}

		kept = append(kept, a)
	}

	*al = kept
}

// Recipients counts the addresses in the list that can actually receive
// mail, skipping group headers and terminators.
func (al AddressList) Recipients() int {
	return xslices.CountFunc(al, func(a *Address) bool {
		return !a.Group && a.Mailbox != ""
	})
}

// Contains reports whether some deliverable address in the list has the
// given mailbox, comparing case-insensitively.
func (al AddressList) Contains(mailbox string) bool {
	return xslices.IndexFunc(al, func(a *Address) bool {
		return !a.Group && strings.EqualFold(a.Mailbox, mailbox)
	}) >= 0
}

func (al AddressList) last() *Address {
	if len(al) == 0 {
		return nil
	}

	return al[len(al)-1]
}
