package addrbook

import (
	"fmt"
	"strings"

	"github.com/larkmail/go-addrbook/rfc822"
)

// Answer is a reply to a yes/no confirmation prompt.
type Answer int

const (
	AnswerNo Answer = iota
	AnswerYes
	AnswerAbort
)

// UI is the terminal surface the interactive flows drive. Prompt shows an
// editable field seeded with initial and reports false when the user
// cancels. Menu shows a view and returns the cursor row, reporting false
// when the user quits without picking.
type UI interface {
	Prompt(label, initial string) (string, bool)
	Confirm(question string, def Answer) Answer
	Menu(view *View) (int, bool)
	Message(format string, args ...any)
	Error(format string, args ...any)
	Beep()
}

// ListMatcher reports whether an address belongs to a mailing list. List
// posting addresses carry the list's name as their display name, which
// makes a poor personal name for the alias.
type ListMatcher func(*rfc822.Address) bool

// CreateAlias walks the user through defining a new alias, seeded from
// the given addresses, and appends the result to the configured alias
// file. It returns the new alias, or nil if the user backed out at any
// point before accepting.
func CreateAlias(b *Book, reg *Registry, ui UI, seed rfc822.AddressList, isList ListMatcher) *Alias {
	name := guessName(seed)

	for {
		got, ok := ui.Prompt("Alias as: ", name)
		if !ok || got == "" {
			return nil
		}

		name = got

		if b.LookupAlias(name) != nil {
			ui.Error("You already have an alias defined with that name")
			continue
		}

		if CheckName(name) {
			break
		}

		answer := ui.Confirm("Warning: This alias name may not work. Fix it?", AnswerYes)

		if answer == AnswerAbort {
			return nil
		}

		if answer == AnswerYes {
			name = FixName(name)
			continue
		}

		break
	}

	var addrs rfc822.AddressList

	input := ""

	if f := firstDeliverable(seed); f != nil {
		input = f.Mailbox
	}

	for addrs == nil {
		got, ok := ui.Prompt("Address: ", input)
		if !ok || got == "" {
			return nil
		}

		input = got

		parsed, err := rfc822.Parse(got)
		if err != nil || len(parsed) == 0 {
			ui.Beep()
			continue
		}

		if err := parsed.ToIntl(); err != nil {
			ui.Error("Bad IDN: %v", err)
			continue
		}

		addrs = parsed
	}

	personal := ""

	if f := firstDeliverable(seed); f != nil && f.Personal != "" && (isList == nil || !isList(f)) {
		personal = f.Personal
	}

	personal, ok := ui.Prompt("Personal name: ", personal)
	if !ok {
		return nil
	}

	if personal != "" {
		addrs.First().Personal = personal
	}

	a := &Alias{Name: name, Addr: addrs}

	if comment, ok := ui.Prompt("Comment: ", ""); ok {
		a.Comment = comment
	}

	if tags, ok := ui.Prompt("Tags (comma separated): ", ""); ok {
		a.Tags = ParseTags(tags)
	}

	if ui.Confirm(fmt.Sprintf("[%s = %s] Accept?", a.Name, a.Addr.Write(true)), AnswerYes) != AnswerYes {
		return nil
	}

	if err := b.Add(a); err != nil {
		ui.Error("%v", err)
		return nil
	}

	path, ok := ui.Prompt("Save to file: ", reg.AliasFile())
	if !ok {
		return a
	}

	if err := SaveAlias(a, ExpandPath(path), reg); err != nil {
		ui.Error("Trouble adding alias: %v", err)
	} else {
		ui.Message("Alias added")
	}

	return a
}

// guessName proposes an alias name from the local part of the first
// deliverable seed address.
func guessName(seed rfc822.AddressList) string {
	f := firstDeliverable(seed)

	if f == nil {
		return ""
	}

	mailbox := f.Mailbox

	if at := strings.IndexByte(mailbox, '@'); at >= 0 {
		mailbox = mailbox[:at]
	}

	return FixName(mailbox)
}

func firstDeliverable(al rfc822.AddressList) *rfc822.Address {
	for _, a := range al {
		if !a.Group && a.Mailbox != "" {
			return a
		}
	}

	return nil
}
