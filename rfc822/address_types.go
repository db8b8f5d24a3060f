package rfc822

// Address is a single email address. A group header carries the group's
// display name in Mailbox and has Group set; the end of the group's member
// run is marked by a zero Address.
type Address struct {
	Personal string
	Mailbox  string
	Group    bool
}

// AddressList is an ordered list of addresses. Duplicates are permitted and
// order is preserved by every operation except Dedupe.
type AddressList []*Address

// Copy returns a copy of the address.
func (a *Address) Copy() *Address {
	c := *a
	return &c
}

// Empty reports whether the address carries no information at all, which is
// how the end of a group's member run is encoded.
func (a *Address) Empty() bool {
	return !a.Group && a.Mailbox == "" && a.Personal == ""
}
