package addrbook

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-vcard"
	"github.com/larkmail/go-addrbook/rfc822"
	"github.com/sirupsen/logrus"
)

// ImportVCards reads vCards from r and adds one alias per card carrying
// at least one email address. Cards without an email, and cards whose
// alias cannot be added, are logged and skipped. It returns the number of
// aliases added.
func ImportVCards(b *Book, r io.Reader) (int, error) {
	dec := vcard.NewDecoder(r)

	added := 0

	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return added, nil
		}

		if err != nil {
			return added, fmt.Errorf("decode vcard: %w", err)
		}

		emails := card.Values(vcard.FieldEmail)
		if len(emails) == 0 {
			continue
		}

		var addrs rfc822.AddressList

		for _, email := range emails {
			addrs.Append(&rfc822.Address{Mailbox: email})
		}

		if fn := card.Value(vcard.FieldFormattedName); fn != "" {
			addrs.First().Personal = fn
		}

		a := &Alias{
			Name:    importName(b, card, emails[0]),
			Addr:    addrs,
			Comment: card.Value(vcard.FieldNote),
			Tags:    ParseTags(card.Value(vcard.FieldCategories)),
		}

		if err := b.Add(a); err != nil {
			logrus.WithError(err).WithField("alias", a.Name).Warn("Skipping vcard entry")
			continue
		}

		added++
	}
}

// ExportVCards writes every alias in the book as a vCard 4.0 record.
func ExportVCards(b *Book, w io.Writer) error {
	enc := vcard.NewEncoder(w)

	for _, a := range b.Aliases() {
		card := make(vcard.Card)

		fn := a.Name

		if f := firstDeliverable(a.Addr); f != nil && f.Personal != "" {
			fn = f.Personal
		}

		card.SetValue(vcard.FieldFormattedName, fn)
		card.SetValue(vcard.FieldNickname, a.Name)

		if a.Comment != "" {
			card.SetValue(vcard.FieldNote, a.Comment)
		}

		if len(a.Tags) > 0 {
			card.SetValue(vcard.FieldCategories, a.TagString())
		}

		for _, addr := range a.Addr {
			if addr.Group || addr.Mailbox == "" {
				continue
			}

			card.AddValue(vcard.FieldEmail, addr.Mailbox)
		}

		vcard.ToV4(card)

		if err := enc.Encode(card); err != nil {
			return fmt.Errorf("encode vcard for %q: %w", a.Name, err)
		}
	}

	return nil
}

// importName derives a unique alias name for a card, preferring the
// nickname, then the formatted name, then the local part of the first
// email. Collisions get a numeric suffix.
func importName(b *Book, card vcard.Card, email string) string {
	base := card.Value(vcard.FieldNickname)

	if base == "" {
		base = card.Value(vcard.FieldFormattedName)
	}

	if base == "" {
		base = email

		if at := strings.IndexByte(base, '@'); at >= 0 {
			base = base[:at]
		}
	}

	base = FixName(base)

	if base == "" {
		base = "contact"
	}

	name := base

	for n := 2; b.LookupAlias(name) != nil; n++ {
		name = fmt.Sprintf("%s-%d", base, n)
	}

	return name
}
