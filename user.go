package addrbook

import (
	"os/user"
	"strings"
	"unicode"
	"unicode/utf8"
)

// User is one account from a user database.
type User struct {
	Login string
	Name  string
}

// UserDB resolves login names. Alias expansion consults it when a bare
// name matches no alias, so "root" on a line picks up the account's real
// name even without an alias defined for it.
type UserDB interface {
	LookupUser(login string) (User, bool)
}

// SystemUserDB reads the operating system's account database.
type SystemUserDB struct{}

func (SystemUserDB) LookupUser(login string) (User, bool) {
	u, err := user.Lookup(login)
	if err != nil {
		return User{}, false
	}

	return User{Login: login, Name: gecosName(u.Name, login)}, true
}

// gecosName extracts the display name from a GECOS field: the part before
// the first comma, with the old '&' abbreviation standing for the
// capitalized login.
func gecosName(gecos, login string) string {
	if idx := strings.IndexByte(gecos, ','); idx >= 0 {
		gecos = gecos[:idx]
	}

	if strings.ContainsRune(gecos, '&') {
		gecos = strings.ReplaceAll(gecos, "&", capitalize(login))
	}

	return gecos
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	r, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToUpper(r)) + s[size:]
}
