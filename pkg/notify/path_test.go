package notify

import (
	"errors"
	"testing"
)

type pathEvent struct {
	path     string
	property string
}

type pathRecorder struct {
	events []pathEvent
}

func (r *pathRecorder) handle(_ any, path string, args *NotifiedEventArgs) {
	r.events = append(r.events, pathEvent{path: path, property: args.Property})
}

func (r *pathRecorder) paths() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.path
	}
	return out
}

func TestSubscribePathRewiring(t *testing.T) {
	root := newNode("root")
	oldChild := newNode("old")
	root.SetChild(oldChild)

	rec := &pathRecorder{}
	seg, err := SubscribePath(root, "Child.Name", rec.handle)
	if err != nil {
		t.Fatal(err)
	}
	defer seg.Unsubscribe()

	oldChild.SetName("old-renamed")
	if got := rec.paths(); len(got) != 1 || got[0] != "Child.Name" {
		t.Fatalf("expected [Child.Name], got %v", got)
	}

	newChild := newNode("new")
	root.SetChild(newChild)
	if got := rec.paths(); len(got) != 2 || got[1] != "Child" {
		t.Fatalf("replacing the child should report Child, got %v", got)
	}

	rec.events = nil
	newChild.SetName("new-renamed")
	if got := rec.paths(); len(got) != 1 || got[0] != "Child.Name" {
		t.Errorf("new child should be observed, got %v", got)
	}

	rec.events = nil
	oldChild.SetName("ignored")
	if len(rec.events) != 0 {
		t.Errorf("old child should be detached, got %v", rec.paths())
	}
}

func TestSubscribePathDeepRewiring(t *testing.T) {
	root := newNode("root")
	mid := newNode("mid")
	mid.SetChild(newNode("leaf"))
	root.SetChild(mid)

	rec := &pathRecorder{}
	seg, err := SubscribePath(root, "Child.Child.Name", rec.handle)
	if err != nil {
		t.Fatal(err)
	}
	defer seg.Unsubscribe()

	replacement := newNode("mid2")
	replacement.SetChild(newNode("leaf2"))
	root.SetChild(replacement)

	rec.events = nil
	replacement.Child().SetName("leaf2-renamed")
	if got := rec.paths(); len(got) != 1 || got[0] != "Child.Child.Name" {
		t.Errorf("expected [Child.Child.Name], got %v", got)
	}

	rec.events = nil
	mid.Child().SetName("detached")
	if len(rec.events) != 0 {
		t.Errorf("old subtree should be detached, got %v", rec.paths())
	}
}

func TestSubscribePathNilIntermediate(t *testing.T) {
	root := newNode("root")
	child := newNode("child")
	root.SetChild(child)

	rec := &pathRecorder{}
	seg, err := SubscribePath(root, "Child.Name", rec.handle)
	if err != nil {
		t.Fatal(err)
	}
	defer seg.Unsubscribe()

	root.SetChild(nil)
	if seg.Next().Active() {
		t.Error("segment after a nil value should have no subscription")
	}
	if seg.Next().Source() != nil {
		t.Error("segment after a nil value should have no source")
	}

	rec.events = nil
	child.SetName("ignored")
	if len(rec.events) != 0 {
		t.Errorf("detached child should not report, got %v", rec.paths())
	}

	root.SetChild(child)
	if !seg.Next().Active() {
		t.Error("setting the value back should re-attach")
	}
	rec.events = nil
	child.SetName("seen")
	if got := rec.paths(); len(got) != 1 || got[0] != "Child.Name" {
		t.Errorf("expected [Child.Name], got %v", got)
	}
}

func TestSubscribePathStartsWithNil(t *testing.T) {
	root := newNode("root")

	rec := &pathRecorder{}
	seg, err := SubscribePath(root, "Child.Child.Name", rec.handle)
	if err != nil {
		t.Fatal(err)
	}
	defer seg.Unsubscribe()

	if !seg.Active() || seg.Next().Active() {
		t.Fatal("only the head should be active while Child is nil")
	}

	child := newNode("child")
	root.SetChild(child)
	if !seg.Next().Active() || seg.Next().Next().Active() {
		t.Error("attaching Child should activate the second segment only")
	}
}

func TestSubscribePathUnsubscribe(t *testing.T) {
	root := newNode("root")
	child := newNode("child")
	root.SetChild(child)

	rec := &pathRecorder{}
	seg, err := SubscribePath(root, "Child.Name", rec.handle)
	if err != nil {
		t.Fatal(err)
	}

	seg.Unsubscribe()
	seg.Unsubscribe()

	child.SetName("x")
	root.SetChild(newNode("y"))

	if len(rec.events) != 0 {
		t.Errorf("unsubscribed path should not report, got %v", rec.paths())
	}
	if root.PropertyChanged().Len() != 0 || child.PropertyChanged().Len() != 0 {
		t.Error("unsubscribe should release every segment's subscription")
	}
}

func TestSubscribePathErrors(t *testing.T) {
	tests := []struct {
		name string
		root Notifiable
		path string
		want error
	}{
		{"empty", newNode("r"), "", ErrInvalidPath},
		{"leading dot", newNode("r"), ".Child", ErrInvalidPath},
		{"trailing dot", newNode("r"), "Child.", ErrInvalidPath},
		{"digit start", newNode("r"), "1Child", ErrInvalidPath},
		{"space", newNode("r"), "Child Name", ErrInvalidPath},
		{"unknown segment", newNode("r"), "Parent.Name", ErrUnknownProperty},
		{"not notifiable", &holder{}, "Plain.Label", ErrSegmentNotNotifiable},
		{"nil root", nil, "Child", ErrNilArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SubscribePath(tt.root, tt.path, func(any, string, *NotifiedEventArgs) {})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSubscribePathEscapedSegments(t *testing.T) {
	root := newNode("root")
	root.SetChild(newNode("child"))

	rec := &pathRecorder{}
	seg, err := SubscribeSegments(root, rec.handle, "@Child", "Name")
	if err != nil {
		t.Fatal(err)
	}
	defer seg.Unsubscribe()

	if seg.Name() != "Child" || seg.Path() != "Child" {
		t.Errorf("escape should be stripped, got %q / %q", seg.Name(), seg.Path())
	}

	root.Child().SetName("renamed")
	if got := rec.paths(); len(got) != 1 || got[0] != "Child.Name" {
		t.Errorf("expected [Child.Name], got %v", got)
	}
}

func TestSubscribeSegmentsRequiresSegments(t *testing.T) {
	_, err := SubscribeSegments(newNode("r"), func(any, string, *NotifiedEventArgs) {})
	if !errors.Is(err, ErrInvalidPath) {
		t.Errorf("expected ErrInvalidPath, got %v", err)
	}
}

func TestSubscribePathSelfReference(t *testing.T) {
	n := newNode("self")
	rec := &pathRecorder{}
	seg, err := SubscribePath(n, "Child.Child.Name", rec.handle)
	if err != nil {
		t.Fatal(err)
	}
	defer seg.Unsubscribe()

	// n.Child == n: every segment ends up attached to n itself.
	n.SetChild(n)
	if got := rec.paths(); len(got) != 1 || got[0] != "Child" {
		t.Fatalf("expected [Child], got %v", got)
	}
	if seg.Next().Source() != n || seg.Next().Next().Source() != n {
		t.Fatal("inner segments should be attached to the node itself")
	}

	rec.events = nil
	n.SetName("renamed")
	if got := rec.paths(); len(got) != 1 || got[0] != "Child.Child.Name" {
		t.Errorf("expected one Child.Child.Name, got %v", got)
	}

	// Breaking the loop re-wires once and leaves the tail detached.
	rec.events = nil
	other := newNode("other")
	n.SetChild(other)
	if got := rec.paths(); len(got) != 1 || got[0] != "Child" {
		t.Errorf("expected [Child], got %v", got)
	}
	if seg.Next().Source() != other || seg.Next().Next().Source() != nil {
		t.Error("second segment should follow other, tail should be detached")
	}

	rec.events = nil
	n.SetName("again")
	other.SetName("other-renamed")
	if len(rec.events) != 0 {
		t.Errorf("no segment observes Name any more, got %v", rec.paths())
	}
}
