package addrbook_test

import (
	"testing"

	"github.com/larkmail/go-addrbook"
	"github.com/stretchr/testify/require"
)

func completionBook(t *testing.T) (*addrbook.Book, *addrbook.Registry) {
	t.Helper()

	bus := addrbook.NewBus()
	book := addrbook.New(bus)
	reg := addrbook.NewRegistry(bus)

	addAlias(t, book, "apple", "ann@example.com")
	addAlias(t, book, "apricot", "bob@example.com")
	addAlias(t, book, "banana", "carol@example.com")

	return book, reg
}

func TestComplete_ExtendsToSharedPrefix(t *testing.T) {
	book, reg := completionBook(t)

	buf := "app"

	result, view := book.Complete(&buf, reg)

	require.Equal(t, addrbook.CompletionExtended, result)
	require.Nil(t, view)
	require.Equal(t, "apple", buf)

	buf = "b"

	result, _ = book.Complete(&buf, reg)

	require.Equal(t, addrbook.CompletionExtended, result)
	require.Equal(t, "banana", buf)

	// With several candidates the buffer stops at what they share.
	buf = "a"

	result, _ = book.Complete(&buf, reg)

	require.Equal(t, addrbook.CompletionExtended, result)
	require.Equal(t, "ap", buf)
}

func TestComplete_AmbiguousLimitsView(t *testing.T) {
	book, reg := completionBook(t)

	// "ap" is already the longest shared prefix of apple and apricot.
	buf := "ap"

	result, view := book.Complete(&buf, reg)
	defer view.Close()

	require.Equal(t, addrbook.CompletionAmbiguous, result)
	require.Equal(t, "ap", buf)
	require.Equal(t, 2, view.VisibleLen())
	require.Equal(t, 3, view.Len())
}

func TestComplete_EmptyPrefixListsEverything(t *testing.T) {
	book, reg := completionBook(t)

	buf := ""

	result, view := book.Complete(&buf, reg)
	defer view.Close()

	require.Equal(t, addrbook.CompletionAmbiguous, result)
	require.Equal(t, 3, view.VisibleLen())
}

func TestComplete_NoMatchListsEverything(t *testing.T) {
	book, reg := completionBook(t)

	buf := "zzz"

	result, view := book.Complete(&buf, reg)
	defer view.Close()

	require.Equal(t, addrbook.CompletionAmbiguous, result)
	require.Equal(t, "zzz", buf)
	require.Equal(t, 3, view.VisibleLen())
}

func TestComplete_MatchesCaseSensitively(t *testing.T) {
	bus := addrbook.NewBus()
	book := addrbook.New(bus)
	reg := addrbook.NewRegistry(bus)

	addAlias(t, book, "Apple", "ann@example.com")

	buf := "a"

	result, view := book.Complete(&buf, reg)
	defer view.Close()

	require.Equal(t, addrbook.CompletionAmbiguous, result)
	require.Equal(t, "a", buf)

	buf = "A"

	result, _ = book.Complete(&buf, reg)

	require.Equal(t, addrbook.CompletionExtended, result)
	require.Equal(t, "Apple", buf)
}

func TestComplete_EmptyBook(t *testing.T) {
	bus := addrbook.NewBus()
	book := addrbook.New(bus)
	reg := addrbook.NewRegistry(bus)

	buf := "x"

	result, view := book.Complete(&buf, reg)

	require.Equal(t, addrbook.CompletionNone, result)
	require.Nil(t, view)
}

func TestCompleteWithMenu_TaggedRowsWin(t *testing.T) {
	book, reg := completionBook(t)

	ui := &fakeUI{
		t: t,
		menu: func(v *addrbook.View) (int, bool) {
			v.TagToggle(0) // apple
			v.TagToggle(1) // apricot
			return 1, true
		},
	}

	buf := "ap"

	require.True(t, book.CompleteWithMenu(&buf, reg, ui))
	require.Equal(t, "ann@example.com, bob@example.com", buf)
}

func TestCompleteWithMenu_CursorFallback(t *testing.T) {
	book, reg := completionBook(t)

	ui := &fakeUI{
		t:    t,
		menu: func(v *addrbook.View) (int, bool) { return 1, true },
	}

	buf := "ap"

	require.True(t, book.CompleteWithMenu(&buf, reg, ui))
	require.Equal(t, "bob@example.com", buf)
}

func TestCompleteWithMenu_DeletesApplyEvenWhenCancelled(t *testing.T) {
	book, reg := completionBook(t)

	ui := &fakeUI{
		t: t,
		menu: func(v *addrbook.View) (int, bool) {
			v.MarkDeleted(0, true) // apple
			return 0, false
		},
	}

	buf := "ap"

	require.False(t, book.CompleteWithMenu(&buf, reg, ui))
	require.Equal(t, "ap", buf)

	require.Nil(t, book.Lookup("apple"))
	require.Equal(t, 2, book.Len())
}

func TestCompleteWithMenu_EmptyBook(t *testing.T) {
	bus := addrbook.NewBus()
	book := addrbook.New(bus)
	reg := addrbook.NewRegistry(bus)

	ui := &fakeUI{t: t}

	buf := "x"

	require.False(t, book.CompleteWithMenu(&buf, reg, ui))
	require.Equal(t, []string{"You have no aliases"}, ui.errors)
}

func TestCompleteWithMenu_ExtendedSkipsMenu(t *testing.T) {
	book, reg := completionBook(t)

	// No menu function: reaching the menu would fail the test.
	ui := &fakeUI{t: t}

	buf := "app"

	require.True(t, book.CompleteWithMenu(&buf, reg, ui))
	require.Equal(t, "apple", buf)
}
