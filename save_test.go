package addrbook_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/larkmail/go-addrbook"
	"github.com/larkmail/go-addrbook/rfc822"
	"github.com/stretchr/testify/require"
)

func TestSaveAlias_RoundTrip(t *testing.T) {
	bus := addrbook.NewBus()
	reg := addrbook.NewRegistry(bus)

	path := filepath.Join(t.TempDir(), "aliases")

	a := &addrbook.Alias{
		Name:    "we'ird",
		Addr:    rfc822.AddressList{{Personal: "Doe, John", Mailbox: "jd@example.com"}},
		Comment: "the boss",
		Tags:    []string{"work"},
	}

	require.NoError(t, addrbook.SaveAlias(a, path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Unsafe names are single-quoted; quotes in the address text are
	// escaped so the loader's unescape pass restores them.
	require.Equal(t,
		`alias 'we\'ird' \"Doe, John\" <jd@example.com> # the boss tags:work`+"\n",
		string(data))

	book := addrbook.New(addrbook.NewBus())
	require.NoError(t, addrbook.LoadFile(book, path, reg))

	got := book.LookupAlias("we'ird")
	require.NotNil(t, got)
	require.Equal(t, "Doe, John", got.Addr.First().Personal)
	require.Equal(t, "jd@example.com", got.Addr.First().Mailbox)
	require.Equal(t, "the boss", got.Comment)
	require.Equal(t, []string{"work"}, got.Tags)
}

func TestSaveAlias_PlainRecord(t *testing.T) {
	bus := addrbook.NewBus()
	reg := addrbook.NewRegistry(bus)

	path := filepath.Join(t.TempDir(), "aliases")

	a := &addrbook.Alias{
		Name: "devs",
		Addr: rfc822.AddressList{{Mailbox: "ann@example.com"}, {Mailbox: "bob@example.com"}},
	}

	require.NoError(t, addrbook.SaveAlias(a, path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	require.Equal(t, "alias devs ann@example.com, bob@example.com\n", string(data))
}

func TestSaveAlias_NewlineGuard(t *testing.T) {
	bus := addrbook.NewBus()
	reg := addrbook.NewRegistry(bus)

	path := filepath.Join(t.TempDir(), "aliases")

	// A file whose last line was left unterminated.
	require.NoError(t, os.WriteFile(path, []byte("alias one a@example.com"), 0o600))

	a := &addrbook.Alias{Name: "two", Addr: rfc822.AddressList{{Mailbox: "b@example.com"}}}

	require.NoError(t, addrbook.SaveAlias(a, path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	require.Equal(t, "alias one a@example.com\nalias two b@example.com\n", string(data))

	// Appending to a well-terminated file adds no blank line.
	require.NoError(t, addrbook.SaveAlias(&addrbook.Alias{
		Name: "three",
		Addr: rfc822.AddressList{{Mailbox: "c@example.com"}},
	}, path, reg))

	data, err = os.ReadFile(path)
	require.NoError(t, err)

	require.NotContains(t, string(data), "\n\n")
	require.Equal(t, 3, strings.Count(string(data), "\n"))

	book := addrbook.New(addrbook.NewBus())
	require.NoError(t, addrbook.LoadFile(book, path, reg))
	require.Equal(t, 3, book.Len())
}

func TestSaveAlias_ConfigCharset(t *testing.T) {
	bus := addrbook.NewBus()
	reg := addrbook.NewRegistry(bus)

	reg.Set(addrbook.OptConfigCharset, "iso-8859-1")

	path := filepath.Join(t.TempDir(), "aliases")

	a := &addrbook.Alias{
		Name:    "cafe",
		Addr:    rfc822.AddressList{{Mailbox: "cafe@example.com"}},
		Comment: "café au lait",
	}

	require.NoError(t, addrbook.SaveAlias(a, path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// On disk the comment is latin-1: a single 0xE9 byte, not the UTF-8
	// pair.
	require.True(t, bytes.Contains(data, []byte{'c', 'a', 'f', 0xE9}))
	require.False(t, bytes.Contains(data, []byte("café")))

	book := addrbook.New(addrbook.NewBus())
	require.NoError(t, addrbook.LoadFile(book, path, reg))

	require.Equal(t, "café au lait", book.LookupAlias("cafe").Comment)
}

func TestFormatRecord(t *testing.T) {
	reg := addrbook.NewRegistry(addrbook.NewBus())

	a := &addrbook.Alias{
		Name: "devs",
		Addr: rfc822.AddressList{{Mailbox: "ann@example.com"}},
		Tags: []string{"go", "mail"},
	}

	require.Equal(t, "alias devs ann@example.com # tags:go,mail\n", addrbook.FormatRecord(a, reg))
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/test")

	require.Equal(t, "/home/test/.aliases", addrbook.ExpandPath("~/.aliases"))
	require.Equal(t, "/home/test", addrbook.ExpandPath("~"))
	require.Equal(t, "/etc/aliases", addrbook.ExpandPath("/etc/aliases"))
	require.Equal(t, "~elsewhere/x", addrbook.ExpandPath("~elsewhere/x"))
}
