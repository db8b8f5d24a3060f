package addrbook

import (
	"strings"

	"github.com/bradenaw/juniper/xslices"

	"github.com/larkmail/go-addrbook/rfc822"
)

// Book is the in-memory alias store. It preserves insertion order, rejects
// duplicate names, and keeps a reverse index from mailbox to the address an
// alias stores for it. Changes are announced on the Bus the Book was
// created with.
//
// A Book is not safe for concurrent use; it belongs to a single-threaded
// event loop, like the rest of a mail client's UI state.
type Book struct {
	// Users answers the user-database fallback during expansion. It
	// defaults to the system account database.
	Users UserDB

	bus     *Bus
	aliases []*Alias
	names   map[string]*Alias
	reverse *ReverseIndex
}

func New(bus *Bus) *Book {
	return &Book{
		Users:   SystemUserDB{},
		bus:     bus,
		names:   make(map[string]*Alias),
		reverse: NewReverseIndex(),
	}
}

// Add appends a to the book and indexes its addresses. The alias must have
// a name and at least one address, and the name must not already be taken.
func (b *Book) Add(a *Alias) error {
	if a.Name == "" {
		return ErrInvalidName
	}

	if len(a.Addr) == 0 {
		return ErrEmptyAddresses
	}

	key := strings.ToLower(a.Name)

	if _, dup := b.names[key]; dup {
		return ErrDuplicateName
	}

	b.names[key] = a
	b.aliases = append(b.aliases, a)

	for _, addr := range a.Addr {
		b.reverse.Insert(addr)
	}

	b.bus.Publish(Event{Type: EventNew, Alias: a})

	return nil
}

// Remove takes a out of the book, un-indexes its addresses, and announces
// the removal. Reports whether a was in the book.
func (b *Book) Remove(a *Alias) bool {
	idx := xslices.IndexFunc(b.aliases, func(have *Alias) bool { return have == a })
	if idx < 0 {
		return false
	}

	b.aliases = xslices.Remove(b.aliases, idx, 1)

	delete(b.names, strings.ToLower(a.Name))

	for _, addr := range a.Addr {
		b.reverse.Delete(addr)
	}

	b.bus.Publish(Event{Type: EventDeleted, Alias: a})

	return true
}

// RemoveName removes the alias with the given name, if any.
func (b *Book) RemoveName(name string) bool {
	a, ok := b.names[strings.ToLower(name)]
	if !ok {
		return false
	}

	return b.Remove(a)
}

// Clear removes every alias, announcing each removal.
func (b *Book) Clear() {
	for len(b.aliases) > 0 {
		b.Remove(b.aliases[0])
	}
}

// Edit mutates a through fn while keeping the reverse index and any open
// views in sync. The name is fixed at Add time; changes fn makes to it are
// discarded. Reports whether a is in the book.
func (b *Book) Edit(a *Alias, fn func(*Alias)) bool {
	if b.names[strings.ToLower(a.Name)] != a {
		return false
	}

	for _, addr := range a.Addr {
		b.reverse.Delete(addr)
	}

	name := a.Name

	fn(a)

	a.Name = name

	for _, addr := range a.Addr {
		b.reverse.Insert(addr)
	}

	b.bus.Publish(Event{Type: EventChanged, Alias: a})

	return true
}

// Lookup returns the address list stored under name, or nil if the name is
// not an alias. The list is owned by the book: copy it before mutating.
func (b *Book) Lookup(name string) rfc822.AddressList {
	a, ok := b.names[strings.ToLower(name)]
	if !ok {
		return nil
	}

	return a.Addr
}

// LookupAlias returns the alias with the given name, or nil.
func (b *Book) LookupAlias(name string) *Alias {
	return b.names[strings.ToLower(name)]
}

// Reverse returns the stored address whose mailbox matches, or nil. The
// result carries the personal name the user chose for that correspondent.
func (b *Book) Reverse(mailbox string) *rfc822.Address {
	return b.reverse.Lookup(mailbox)
}

// Aliases returns the aliases in insertion order. The slice is a copy; the
// aliases are not.
func (b *Book) Aliases() []*Alias {
	return xslices.Clone(b.aliases)
}

func (b *Book) Len() int {
	return len(b.aliases)
}
