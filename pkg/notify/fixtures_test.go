package notify

import (
	"strings"
	"sync"
)

type person struct {
	Notifier
}

func newPerson() *person {
	p := &person{}
	p.Bind(p)
	return p
}

func (p *person) First() string     { return Get[string](&p.Notifier, "First") }
func (p *person) SetFirst(v string) { Set(&p.Notifier, "First", v) }
func (p *person) Last() string      { return Get[string](&p.Notifier, "Last") }
func (p *person) SetLast(v string)  { Set(&p.Notifier, "Last", v) }
func (p *person) Full() string      { return strings.TrimSpace(p.First() + " " + p.Last()) }

func (*person) NotifiedBy() Dependencies {
	return Dependencies{
		"Full": By("First", "Last"),
	}
}

type employee struct {
	person
}

func newEmployee() *employee {
	e := &employee{}
	e.Bind(e)
	return e
}

func (e *employee) Title() string     { return Get[string](&e.Notifier, "Title") }
func (e *employee) SetTitle(v string) { Set(&e.Notifier, "Title", v) }

func (*employee) NotifiedBy() Dependencies {
	return Dependencies{
		"Full":  By("Title").Inherited(),
		"Badge": By("Title"),
	}
}

// diamond: C and D depend on A, E depends on both.
type diamond struct {
	Notifier
}

func newDiamond() *diamond {
	d := &diamond{}
	d.Bind(d)
	return d
}

func (d *diamond) A() int     { return Get[int](&d.Notifier, "A") }
func (d *diamond) SetA(v int) { Set(&d.Notifier, "A", v) }
func (d *diamond) C() int     { return d.A() * 2 }
func (d *diamond) D() int     { return d.A() * 3 }
func (d *diamond) E() int     { return d.C() + d.D() }

func (*diamond) NotifiedBy() Dependencies {
	return Dependencies{
		"C": By("A"),
		"D": By("A"),
		"E": By("C", "D"),
	}
}

// loop declares X and Y as depending on each other.
type loop struct {
	Notifier
}

func newLoop() *loop {
	l := &loop{}
	l.Bind(l)
	return l
}

func (l *loop) X() int     { return Get[int](&l.Notifier, "X") }
func (l *loop) SetX(v int) { Set(&l.Notifier, "X", v) }
func (l *loop) Y() int     { return l.X() + 1 }

func (*loop) NotifiedBy() Dependencies {
	return Dependencies{
		"X": By("Y"),
		"Y": By("X"),
	}
}

type node struct {
	Notifier
}

func newNode(name string) *node {
	n := &node{}
	n.Bind(n)
	n.SetName(name)
	return n
}

func (n *node) Name() string       { return Get[string](&n.Notifier, "Name") }
func (n *node) SetName(v string)   { Set(&n.Notifier, "Name", v) }
func (n *node) Child() *node       { return Get[*node](&n.Notifier, "Child") }
func (n *node) SetChild(c *node)   { Set(&n.Notifier, "Child", c) }
func (n *node) Tags() []string     { return Get[[]string](&n.Notifier, "Tags") }
func (n *node) SetTags(v []string) { Set(&n.Notifier, "Tags", v) }

// plain has properties but cannot be observed.
type plain struct {
	label string
}

func (p *plain) Label() string { return p.label }

type holder struct {
	Notifier
}

func (h *holder) Plain() *plain { return Get[*plain](&h.Notifier, "Plain") }

// recorder collects change events in order.
type recorder struct {
	mu     sync.Mutex
	events []*NotifiedEventArgs
	srcs   []any
}

func (r *recorder) handle(source any, args *NotifiedEventArgs) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, args)
	r.srcs = append(r.srcs, source)
}

func (r *recorder) properties() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Property
	}
	return out
}

func (r *recorder) count(property string) int {
	n := 0
	for _, p := range r.properties() {
		if p == property {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.srcs = nil
}

func record(n Notifiable) *recorder {
	r := &recorder{}
	if _, err := n.PropertyChanged().Subscribe(r.handle); err != nil {
		panic(err)
	}
	return r
}
