package addrbook

import (
	"fmt"

	"github.com/spf13/viper"
)

// Option names the alias subsystem reads from the Registry.
const (
	OptAliasFile     = "alias_file"
	OptAliasFormat   = "alias_format"
	OptCharset       = "charset"
	OptConfigCharset = "config_charset"
	OptHostname      = "hostname"
	OptReverseAlias  = "reverse_alias"
	OptSortAlias     = "sort_alias"
	OptUseDomain     = "use_domain"
)

var knownOptions = []string{
	OptAliasFile,
	OptAliasFormat,
	OptCharset,
	OptConfigCharset,
	OptHostname,
	OptReverseAlias,
	OptSortAlias,
	OptUseDomain,
}

// Registry holds the runtime options the alias subsystem depends on.
// Writes go through Set so dependents hear about changes; a view
// re-sorts itself when sort_alias flips, for example.
type Registry struct {
	v   *viper.Viper
	bus *Bus
}

func NewRegistry(bus *Bus) *Registry {
	v := viper.New()

	v.SetDefault(OptAliasFile, "~/.aliases")
	v.SetDefault(OptAliasFormat, "%3n %f%t %-15a %-56r | %c")
	v.SetDefault(OptCharset, "utf-8")
	v.SetDefault(OptConfigCharset, "")
	v.SetDefault(OptHostname, "")
	v.SetDefault(OptReverseAlias, false)
	v.SetDefault(OptSortAlias, "alias")
	v.SetDefault(OptUseDomain, true)

	return &Registry{v: v, bus: bus}
}

// Set writes an option and announces the change.
func (r *Registry) Set(name string, value any) {
	r.v.Set(name, value)

	r.bus.Publish(Event{Type: EventConfig, Option: name})
}

// ReadFile loads options from a config file, then announces every known
// option so dependents refresh.
func (r *Registry) ReadFile(path string) error {
	r.v.SetConfigFile(path)

	if err := r.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	for _, name := range knownOptions {
		r.bus.Publish(Event{Type: EventConfig, Option: name})
	}

	return nil
}

func (r *Registry) AliasFile() string {
	return r.v.GetString(OptAliasFile)
}

func (r *Registry) AliasFormat() string {
	return r.v.GetString(OptAliasFormat)
}

func (r *Registry) Charset() string {
	return r.v.GetString(OptCharset)
}

func (r *Registry) ConfigCharset() string {
	return r.v.GetString(OptConfigCharset)
}

func (r *Registry) Hostname() string {
	return r.v.GetString(OptHostname)
}

func (r *Registry) ReverseAlias() bool {
	return r.v.GetBool(OptReverseAlias)
}

// SortAlias returns the configured sort key and whether the order is
// reversed, parsed from values like "alias", "address", "unsorted" and
// their "reverse-" forms.
func (r *Registry) SortAlias() (SortKey, bool) {
	return ParseSort(r.v.GetString(OptSortAlias))
}

func (r *Registry) UseDomain() bool {
	return r.v.GetBool(OptUseDomain)
}
