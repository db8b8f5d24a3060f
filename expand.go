package addrbook

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/larkmail/go-addrbook/rfc822"
)

// Envelope collects the address lists of an outgoing message that are
// subject to alias expansion.
type Envelope struct {
	From           rfc822.AddressList
	To             rfc822.AddressList
	Cc             rfc822.AddressList
	Bcc            rfc822.AddressList
	ReplyTo        rfc822.AddressList
	MailFollowupTo rfc822.AddressList
}

// ExpandAliases rewrites al in place, replacing bare names with the
// addresses their aliases stand for. Nested references expand depth-first;
// a name already expanded higher up the same chain is dropped instead of
// followed again, so definition cycles cannot loop. Bare names that match
// no alias stay put and pick up a personal name from the user database
// when one exists. Afterwards, if use_domain is set, remaining bare locals
// are qualified with the configured hostname, and the list is deduplicated
// keeping first occurrences.
func (b *Book) ExpandAliases(reg *Registry, al *rfc822.AddressList) {
	b.expand(reg, al, make(map[string]struct{}))

	al.Dedupe()
}

// ExpandEnvelope expands every address list of env.
func (b *Book) ExpandEnvelope(reg *Registry, env *Envelope) {
	for _, al := range []*rfc822.AddressList{&env.From, &env.To, &env.Cc, &env.Bcc, &env.ReplyTo, &env.MailFollowupTo} {
		b.ExpandAliases(reg, al)
	}
}

func (b *Book) expand(reg *Registry, al *rfc822.AddressList, seen map[string]struct{}) {
	i := 0

	for i < len(*al) {
		a := (*al)[i]

		// Only a bare name can be an alias reference: not a group marker,
		// not something with a display name, not a full address.
		if a.Group || a.Personal != "" || a.Mailbox == "" || strings.Contains(a.Mailbox, "@") {
			i++
			continue
		}

		stored := b.Lookup(a.Mailbox)
		if stored == nil {
			if u, ok := b.Users.LookupUser(a.Mailbox); ok && u.Name != "" {
				a.Personal = u.Name
			}

			i++
			continue
		}

		key := strings.ToLower(a.Mailbox)

		if _, dup := seen[key]; dup {
			logrus.WithFields(logrus.Fields{
				"alias": a.Mailbox,
			}).Debug("Loop in alias expansion")

			al.Delete(i)
			continue
		}

		seen[key] = struct{}{}

		// Replace the reference with a copy of its definition and keep the
		// cursor on the first spliced element, so nested references expand
		// under the same seen set.
		al.InsertBefore(i, stored.Copy()...)
		al.Delete(i + len(stored))
	}

	if host := reg.Hostname(); reg.UseDomain() && host != "" {
		al.Qualify(host)
	}
}
