// Package model holds the sample notifiable types used by the narvi
// command and by integration tests.
package model

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/narvi-dev/narvi/pkg/collection"
	"github.com/narvi-dev/narvi/pkg/notify"
)

// Person has two stored names and a derived full name.
type Person struct {
	notify.Notifier
}

// NewPerson returns a bound Person.
func NewPerson(first, last string) *Person {
	p := &Person{}
	p.Bind(p)
	p.SetFirst(first)
	p.SetLast(last)
	return p
}

func (p *Person) First() string     { return notify.Get[string](&p.Notifier, "First") }
func (p *Person) SetFirst(v string) { notify.SetCaller(&p.Notifier, v) }
func (p *Person) Last() string      { return notify.Get[string](&p.Notifier, "Last") }
func (p *Person) SetLast(v string)  { notify.SetCaller(&p.Notifier, v) }

// Full joins the first and last name.
func (p *Person) Full() string {
	return strings.TrimSpace(p.First() + " " + p.Last())
}

func (*Person) NotifiedBy() notify.Dependencies {
	return notify.Dependencies{
		"Full": notify.By("First", "Last"),
	}
}

// Employee extends Person with a title that is part of the full name.
type Employee struct {
	Person
}

// NewEmployee returns a bound Employee.
func NewEmployee(first, last, title string) *Employee {
	e := &Employee{}
	e.Bind(e)
	e.SetFirst(first)
	e.SetLast(last)
	e.SetTitle(title)
	return e
}

func (e *Employee) Title() string     { return notify.Get[string](&e.Notifier, "Title") }
func (e *Employee) SetTitle(v string) { notify.SetCaller(&e.Notifier, v) }

// Full prefixes the title, when there is one.
func (e *Employee) Full() string {
	if t := e.Title(); t != "" {
		return t + " " + e.Person.Full()
	}
	return e.Person.Full()
}

// Badge is the title in upper case.
func (e *Employee) Badge() string { return strings.ToUpper(e.Title()) }

func (*Employee) NotifiedBy() notify.Dependencies {
	return notify.Dependencies{
		"Full":  notify.By("Title").Inherited(),
		"Badge": notify.By("Title"),
	}
}

// Address is a postal address.
type Address struct {
	notify.Notifier
}

// NewAddress returns a bound Address.
func NewAddress(street, city string) *Address {
	a := &Address{}
	a.Bind(a)
	a.SetStreet(street)
	a.SetCity(city)
	return a
}

func (a *Address) Street() string     { return notify.Get[string](&a.Notifier, "Street") }
func (a *Address) SetStreet(v string) { notify.SetCaller(&a.Notifier, v) }
func (a *Address) City() string       { return notify.Get[string](&a.Notifier, "City") }
func (a *Address) SetCity(v string)   { notify.SetCaller(&a.Notifier, v) }

// Line formats the address on one line.
func (a *Address) Line() string {
	return strings.Trim(a.Street()+", "+a.City(), ", ")
}

func (*Address) NotifiedBy() notify.Dependencies {
	return notify.Dependencies{
		"Line": notify.By("Street", "City"),
	}
}

// Customer is a Person with an address and a list of orders.
type Customer struct {
	Person
	orders *collection.List[string]
}

// NewCustomer returns a bound Customer with an empty order list.
func NewCustomer(first, last string) *Customer {
	c := &Customer{orders: collection.New[string]()}
	c.Bind(c)
	c.SetFirst(first)
	c.SetLast(last)
	return c
}

func (c *Customer) Address() *Address     { return notify.Get[*Address](&c.Notifier, "Address") }
func (c *Customer) SetAddress(a *Address) { notify.SetCaller(&c.Notifier, a) }

// Orders is the observable order list.
func (c *Customer) Orders() *collection.List[string] { return c.orders }

// Label is the full name followed by the city, if known.
func (c *Customer) Label() string {
	if a := c.Address(); a != nil && a.City() != "" {
		return c.Full() + " (" + a.City() + ")"
	}
	return c.Full()
}

func (*Customer) NotifiedBy() notify.Dependencies {
	return notify.Dependencies{
		"Label": notify.By("Full", "Address"),
	}
}

// Node is a singly linked chain element.
type Node struct {
	notify.Notifier
}

// NewNode returns a bound Node.
func NewNode(name string) *Node {
	n := &Node{}
	n.Bind(n)
	n.SetName(name)
	return n
}

func (n *Node) Name() string     { return notify.Get[string](&n.Notifier, "Name") }
func (n *Node) SetName(v string) { notify.SetCaller(&n.Notifier, v) }
func (n *Node) Next() *Node      { return notify.Get[*Node](&n.Notifier, "Next") }
func (n *Node) SetNext(v *Node)  { notify.SetCaller(&n.Notifier, v) }

// Chain links fresh nodes named names and returns the head.
func Chain(names ...string) *Node {
	var head, tail *Node
	for _, name := range names {
		n := NewNode(name)
		if head == nil {
			head = n
		} else {
			tail.SetNext(n)
		}
		tail = n
	}
	return head
}

var types = map[string]reflect.Type{
	"person":   reflect.TypeFor[Person](),
	"employee": reflect.TypeFor[Employee](),
	"address":  reflect.TypeFor[Address](),
	"customer": reflect.TypeFor[Customer](),
	"node":     reflect.TypeFor[Node](),
}

// Names returns the registered model names, sorted.
func Names() []string {
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the type registered under name.
func Lookup(name string) (reflect.Type, error) {
	t, ok := types[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown model %q", name)
	}
	return t, nil
}
