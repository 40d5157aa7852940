package notify

import (
	"strings"
)

// DefaultSurrogatePrefix is the prefix used by a PrefixedSurrogate created
// without one.
const DefaultSurrogatePrefix = "_____PrefixedProperty_"

// Surrogate attaches properties to a Notifier that its owner does not
// declare. Attached properties are stored, compared and notified like any
// other stored property, so they can be observed with NotifyFor.
type Surrogate interface {
	// ResolveName returns the stored name of property.
	ResolveName(property string) (string, error)

	// Set writes an attached property and notifies on change.
	Set(property string, value any) error

	// Get returns the value of an attached property.
	Get(property string) (any, bool)

	// IsAttached reports whether property has been set.
	IsAttached(property string) bool
}

// PrefixedSurrogate stores attached properties under "<prefix>_<name>", so
// they never clash with the owner's own properties.
type PrefixedSurrogate struct {
	target *Notifier
	prefix string
}

// NewPrefixedSurrogate returns a PrefixedSurrogate over target. An empty
// prefix selects DefaultSurrogatePrefix; a prefix of only spaces is an
// error.
func NewPrefixedSurrogate(target *Notifier, prefix string) (*PrefixedSurrogate, error) {
	if target == nil {
		return nil, nilArgument("target")
	}
	if prefix == "" {
		prefix = DefaultSurrogatePrefix
	} else if prefix = strings.TrimSpace(prefix); prefix == "" {
		return nil, invalidProperty("prefix")
	}
	return &PrefixedSurrogate{target: target, prefix: prefix}, nil
}

// Prefix returns the prefix of stored names.
func (s *PrefixedSurrogate) Prefix() string {
	return s.prefix
}

func (s *PrefixedSurrogate) ResolveName(property string) (string, error) {
	name, err := surrogateName(property)
	if err != nil {
		return "", err
	}
	return s.prefix + "_" + name, nil
}

func (s *PrefixedSurrogate) Set(property string, value any) error {
	return surrogateSet(s, s.target, property, value)
}

func (s *PrefixedSurrogate) Get(property string) (any, bool) {
	return surrogateGet(s, s.target, property)
}

func (s *PrefixedSurrogate) IsAttached(property string) bool {
	_, ok := s.Get(property)
	return ok
}

// Properties returns the unprefixed names of the attached properties.
func (s *PrefixedSurrogate) Properties() []string {
	var out []string
	for _, name := range s.target.Properties() {
		if rest, ok := strings.CutPrefix(name, s.prefix+"_"); ok {
			out = append(out, rest)
		}
	}
	return out
}

// DelegateSurrogate stores attached properties under their own names.
// They share the namespace of the owner's stored properties and may
// deliberately shadow them.
type DelegateSurrogate struct {
	target *Notifier
}

// NewDelegateSurrogate returns a DelegateSurrogate over target.
func NewDelegateSurrogate(target *Notifier) (*DelegateSurrogate, error) {
	if target == nil {
		return nil, nilArgument("target")
	}
	return &DelegateSurrogate{target: target}, nil
}

func (s *DelegateSurrogate) ResolveName(property string) (string, error) {
	return surrogateName(property)
}

func (s *DelegateSurrogate) Set(property string, value any) error {
	return surrogateSet(s, s.target, property, value)
}

func (s *DelegateSurrogate) Get(property string) (any, bool) {
	return surrogateGet(s, s.target, property)
}

func (s *DelegateSurrogate) IsAttached(property string) bool {
	_, ok := s.Get(property)
	return ok
}

// Properties returns every stored property of the target.
func (s *DelegateSurrogate) Properties() []string {
	return s.target.Properties()
}

// Attached returns the attached property as a V, or the zero value.
func Attached[V any](s Surrogate, property string) V {
	v, _ := s.Get(property)
	out, _ := v.(V)
	return out
}

func surrogateName(property string) (string, error) {
	name := strings.TrimSpace(property)
	if name == "" {
		return "", invalidProperty(property)
	}
	return name, nil
}

func surrogateSet(s Surrogate, target *Notifier, property string, value any) error {
	name, err := s.ResolveName(property)
	if err != nil {
		return err
	}
	Set(target, name, value)
	return nil
}

func surrogateGet(s Surrogate, target *Notifier, property string) (any, bool) {
	name, err := s.ResolveName(property)
	if err != nil {
		return nil, false
	}
	return target.stored(name)
}
