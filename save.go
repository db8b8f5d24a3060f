package addrbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// SaveAlias appends a to the alias file at path, creating the file if
// needed. The record uses the same grammar LoadFile reads, so what is
// written parses back to the same alias. If the file's last byte is not a
// newline a newline is written first, protecting the previous record. The
// file is fsynced before close.
func SaveAlias(a *Alias, path string, reg *Registry) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o600)
	if err != nil {
		return fmt.Errorf("open alias file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat alias file: %w", err)
	}

	if size := info.Size(); size > 0 {
		var last [1]byte

		if _, err := f.ReadAt(last[:], size-1); err != nil {
			return fmt.Errorf("read alias file: %w", err)
		}

		if last[0] != '\n' {
			if _, err := f.WriteString("\n"); err != nil {
				return fmt.Errorf("write alias file: %w", err)
			}
		}
	}

	if _, err := f.WriteString(FormatRecord(a, reg)); err != nil {
		return fmt.Errorf("write alias file: %w", err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync alias file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close alias file: %w", err)
	}

	return nil
}

// FormatRecord renders a as one alias-file record, newline included, in
// the grammar LoadFile reads.
func FormatRecord(a *Alias, reg *Registry) string {
	var b strings.Builder

	b.WriteString("alias ")
	b.WriteString(quoteName(recode(a.Name, reg)))
	b.WriteByte(' ')
	b.WriteString(escapeUnsafe(recode(a.Addr.Write(false), reg)))

	if a.Comment != "" || len(a.Tags) > 0 {
		b.WriteString(" #")

		if a.Comment != "" {
			b.WriteByte(' ')
			b.WriteString(recode(a.Comment, reg))
		}

		if len(a.Tags) > 0 {
			b.WriteString(" tags:")
			b.WriteString(recode(a.TagString(), reg))
		}
	}

	b.WriteByte('\n')

	return b.String()
}

// quoteName returns the name as the loader will read it back: verbatim
// when it is safe, otherwise single-quoted with embedded quotes and
// backslashes escaped.
func quoteName(name string) string {
	if CheckName(name) {
		return name
	}

	var b strings.Builder

	b.WriteByte('\'')

	for i := 0; i < len(name); i++ {
		if name[i] == '\'' || name[i] == '\\' {
			b.WriteByte('\\')
		}

		b.WriteByte(name[i])
	}

	b.WriteByte('\'')

	return b.String()
}

// escapeUnsafe backslash-escapes the bytes the config-file reader treats
// specially, so address text passes through tokenization intact.
func escapeUnsafe(s string) string {
	if !strings.ContainsAny(s, "`'\"\\$") {
		return s
	}

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		if strings.IndexByte("`'\"\\$", s[i]) >= 0 {
			b.WriteByte('\\')
		}

		b.WriteByte(s[i])
	}

	return b.String()
}

// recode converts s from the runtime charset to the config-file charset.
func recode(s string, reg *Registry) string {
	return convertCharset(s, reg.Charset(), reg.ConfigCharset())
}

// convertCharset transcodes s between two IANA charset names. When either
// name is unset, unknown, or the conversion fails, s is returned
// unchanged; a record the user can fix by hand beats no record at all.
func convertCharset(s, from, to string) string {
	if from == "" || to == "" || strings.EqualFold(from, to) {
		return s
	}

	src, err := ianaindex.MIME.Encoding(from)
	if err != nil || src == nil {
		return s
	}

	dst, err := ianaindex.MIME.Encoding(to)
	if err != nil || dst == nil {
		return s
	}

	out, _, err := transform.String(transform.Chain(src.NewDecoder(), dst.NewEncoder()), s)
	if err != nil {
		return s
	}

	return out
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}

	return path
}
