package addrbook

import "errors"

var (
	// ErrInvalidName is returned when an alias is created with an empty
	// name.
	ErrInvalidName = errors.New("addrbook: invalid alias name")

	// ErrDuplicateName is returned when an alias name is already taken,
	// compared case-insensitively.
	ErrDuplicateName = errors.New("addrbook: duplicate alias name")

	// ErrEmptyAddresses is returned when an alias is created with no
	// addresses.
	ErrEmptyAddresses = errors.New("addrbook: alias has no addresses")
)
