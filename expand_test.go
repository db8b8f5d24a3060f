package addrbook_test

import (
	"testing"

	"github.com/larkmail/go-addrbook"
	"github.com/larkmail/go-addrbook/rfc822"
	"github.com/stretchr/testify/require"
)

// fakeUsers is a canned user database for expansion tests.
type fakeUsers map[string]string

func (db fakeUsers) LookupUser(login string) (addrbook.User, bool) {
	name, ok := db[login]

	return addrbook.User{Login: login, Name: name}, ok
}

func TestExpand_ReplacesBareNames(t *testing.T) {
	bus := addrbook.NewBus()
	book := addrbook.New(bus)
	reg := addrbook.NewRegistry(bus)

	addAlias(t, book, "devs", "ann@example.com", "bob@example.com")

	list := rfc822.AddressList{{Mailbox: "devs"}, {Mailbox: "carol@example.com"}}

	book.ExpandAliases(reg, &list)

	require.Equal(t, []string{"ann@example.com", "bob@example.com", "carol@example.com"}, mailboxes(list))

	// The expansion is a copy; the stored definition is not shared.
	stored := book.Lookup("devs")
	require.NotSame(t, stored[0], list[0])
}

func TestExpand_OnlyBareNamesAreCandidates(t *testing.T) {
	bus := addrbook.NewBus()
	book := addrbook.New(bus)
	reg := addrbook.NewRegistry(bus)

	addAlias(t, book, "devs", "ann@example.com")

	list := rfc822.AddressList{
		{Personal: "The Devs", Mailbox: "devs"},
		{Mailbox: "devs@example.com"},
		{Group: true, Mailbox: "friends"},
		{Mailbox: "joe@example.com"},
		{},
	}

	book.ExpandAliases(reg, &list)

	// A display name, a domain, or group punctuation keeps an entry as it
	// is, even though "devs" is defined.
	require.Equal(t, 5, len(list))
	require.Equal(t, "devs", list[0].Mailbox)
	require.Equal(t, "devs@example.com", list[1].Mailbox)
	require.True(t, list[2].Group)
	require.True(t, list[4].Empty())
}

func TestExpand_Nested(t *testing.T) {
	bus := addrbook.NewBus()
	book := addrbook.New(bus)
	reg := addrbook.NewRegistry(bus)

	addAlias(t, book, "leads", "bob@example.com", "carol@example.com")
	addAlias(t, book, "devs", "ann@example.com", "leads")

	list := rfc822.AddressList{{Mailbox: "devs"}}

	book.ExpandAliases(reg, &list)

	require.Equal(t, []string{"ann@example.com", "bob@example.com", "carol@example.com"}, mailboxes(list))
}

func TestExpand_CyclesCollapse(t *testing.T) {
	bus := addrbook.NewBus()
	book := addrbook.New(bus)
	reg := addrbook.NewRegistry(bus)

	addAlias(t, book, "a", "b")
	addAlias(t, book, "b", "a")

	list := rfc822.AddressList{{Mailbox: "a"}}

	book.ExpandAliases(reg, &list)

	require.Empty(t, mailboxes(list))
}

func TestExpand_SelfReferenceDropped(t *testing.T) {
	bus := addrbook.NewBus()
	book := addrbook.New(bus)
	reg := addrbook.NewRegistry(bus)

	addAlias(t, book, "root", "root")

	list := rfc822.AddressList{{Mailbox: "root"}, {Mailbox: "joe@example.com"}}

	book.ExpandAliases(reg, &list)

	require.Equal(t, []string{"joe@example.com"}, mailboxes(list))
}

func TestExpand_UserDBFallback(t *testing.T) {
	bus := addrbook.NewBus()
	book := addrbook.New(bus)
	reg := addrbook.NewRegistry(bus)

	book.Users = fakeUsers{"root": "System Admin"}

	list := rfc822.AddressList{{Mailbox: "root"}, {Mailbox: "ghost"}}

	book.ExpandAliases(reg, &list)

	// A known account picks up its real name; an unknown one stays bare.
	require.Equal(t, "System Admin", list[0].Personal)
	require.Equal(t, "root", list[0].Mailbox)
	require.Equal(t, "", list[1].Personal)
}

func TestExpand_QualifyAndDedupe(t *testing.T) {
	bus := addrbook.NewBus()
	book := addrbook.New(bus)
	reg := addrbook.NewRegistry(bus)

	reg.Set(addrbook.OptHostname, "example.com")

	book.Users = fakeUsers{}

	addAlias(t, book, "devs", "ann@example.com", "bob")

	list := rfc822.AddressList{{Mailbox: "devs"}, {Mailbox: "ANN@EXAMPLE.COM"}}

	book.ExpandAliases(reg, &list)

	require.Equal(t, []string{"ann@example.com", "bob@example.com"}, mailboxes(list))
}

func TestExpand_UseDomainOff(t *testing.T) {
	bus := addrbook.NewBus()
	book := addrbook.New(bus)
	reg := addrbook.NewRegistry(bus)

	reg.Set(addrbook.OptHostname, "example.com")
	reg.Set(addrbook.OptUseDomain, false)

	book.Users = fakeUsers{}

	list := rfc822.AddressList{{Mailbox: "bob"}}

	book.ExpandAliases(reg, &list)

	require.Equal(t, []string{"bob"}, mailboxes(list))
}

func TestExpand_Idempotent(t *testing.T) {
	bus := addrbook.NewBus()
	book := addrbook.New(bus)
	reg := addrbook.NewRegistry(bus)

	reg.Set(addrbook.OptHostname, "example.com")

	book.Users = fakeUsers{}

	addAlias(t, book, "devs", "ann@example.com", "bob")

	list := rfc822.AddressList{{Mailbox: "devs"}}

	book.ExpandAliases(reg, &list)

	once := list.Write(false)

	book.ExpandAliases(reg, &list)

	require.Equal(t, once, list.Write(false))
}

func TestExpandEnvelope(t *testing.T) {
	bus := addrbook.NewBus()
	book := addrbook.New(bus)
	reg := addrbook.NewRegistry(bus)

	addAlias(t, book, "devs", "ann@example.com", "bob@example.com")

	env := addrbook.Envelope{
		To: rfc822.AddressList{{Mailbox: "devs"}},
		Cc: rfc822.AddressList{{Mailbox: "devs"}},
	}

	book.ExpandEnvelope(reg, &env)

	// Each header expands on its own; the loop guard does not bleed from
	// one list into the next.
	require.Equal(t, []string{"ann@example.com", "bob@example.com"}, mailboxes(env.To))
	require.Equal(t, []string{"ann@example.com", "bob@example.com"}, mailboxes(env.Cc))
	require.Empty(t, env.Bcc)
}
