package rfc822

import (
	"fmt"
	"strings"

	"golang.org/x/net/idna"
)

// IDNError reports an address whose domain cannot be converted to its
// ASCII (A-label) form.
type IDNError struct {
	Mailbox string
}

func (e *IDNError) Error() string {
	return fmt.Sprintf("rfc822: bad IDN %q", e.Mailbox)
}

// ToIntl rewrites every deliverable address in the list into its
// international transport form, converting the domain to IDN A-labels. The
// first address that fails conversion aborts the pass.
func (al AddressList) ToIntl() error {
	for _, a := range al {
		if a.Group || a.Mailbox == "" {
			continue
		}

		intl, err := IntlForm(a.Mailbox)
		if err != nil {
			return &IDNError{Mailbox: a.Mailbox}
		}

		a.Mailbox = intl
	}

	return nil
}

// ToLocal rewrites every deliverable address in the list into its display
// form, converting IDN A-labels back to unicode. Conversion failures leave
// the address untouched.
func (al AddressList) ToLocal() {
	for _, a := range al {
		if a.Group || a.Mailbox == "" {
			continue
		}

		local, domain, ok := splitMailbox(a.Mailbox)
		if !ok {
			continue
		}

		uni, err := idna.ToUnicode(domain)
		if err != nil {
			continue
		}

		a.Mailbox = local + "@" + uni
	}
}

// IntlForm returns the mailbox with its domain converted to IDN A-labels.
// A mailbox without a domain is returned unchanged.
func IntlForm(mailbox string) (string, error) {
	local, domain, ok := splitMailbox(mailbox)
	if !ok {
		return mailbox, nil
	}

	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return "", err
	}

	return local + "@" + ascii, nil
}

func splitMailbox(mailbox string) (local, domain string, ok bool) {
	idx := strings.LastIndexByte(mailbox, '@')
	if idx < 0 || idx == len(mailbox)-1 {
		return "", "", false
	}

	return mailbox[:idx], mailbox[idx+1:], true
}
