package memdomain

import (
	"fmt"
	"iter"
	"slices"
)

// SystemBusName is the name of the domain giving a view of the CPU address
// space, as seen by the CPU.
const SystemBusName = "System Bus"

// List is an ordered set of uniquely named domains. The first domain is the
// main one, unless changed with SetMain.
type List struct {
	domains []Domain
	byName  map[string]Domain
	main    Domain
}

func NewList(domains ...Domain) (*List, error) {
	l := &List{byName: make(map[string]Domain, len(domains))}
	for _, d := range domains {
		if err := l.Add(d); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Add appends d to the list.
func (l *List) Add(d Domain) error {
	if _, ok := l.byName[d.Name()]; ok {
		return fmt.Errorf("duplicate memory domain %q", d.Name())
	}
	l.domains = append(l.domains, d)
	l.byName[d.Name()] = d
	if l.main == nil {
		l.main = d
	}

	modDomain.DebugZ("add domain").
		String("name", d.Name()).
		Int64("size", d.Size()).
		Int("word", d.WordSize()).
		Stringer("endian", d.Endian()).
		Bool("writable", d.Writable()).
		End()
	return nil
}

func (l *List) Get(name string) (Domain, bool) {
	d, ok := l.byName[name]
	return d, ok
}

func (l *List) Len() int { return len(l.domains) }

// Main returns the main domain, or nil if the list is empty.
func (l *List) Main() Domain { return l.main }

func (l *List) SetMain(name string) error {
	d, ok := l.byName[name]
	if !ok {
		return fmt.Errorf("no memory domain named %q", name)
	}
	l.main = d
	return nil
}

// SystemBus returns the domain named SystemBusName, or the main domain if
// there's none.
func (l *List) SystemBus() Domain {
	if d, ok := l.byName[SystemBusName]; ok {
		return d
	}
	return l.main
}

func (l *List) Names() []string {
	names := make([]string, len(l.domains))
	for i, d := range l.domains {
		names[i] = d.Name()
	}
	return names
}

// All iterates over the domains in registration order.
func (l *List) All() iter.Seq[Domain] {
	return slices.Values(l.domains)
}
