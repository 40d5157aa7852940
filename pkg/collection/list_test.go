package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narvi-dev/narvi/pkg/notify"
)

type changeLog[T any] struct {
	changes []*ChangeArgs[T]
	counts  []any
}

func observe[T any](t *testing.T, l *List[T]) *changeLog[T] {
	t.Helper()
	log := &changeLog[T]{}
	_, err := NotifyFor(l, func(_ any, args *ChangeArgs[T]) {
		log.changes = append(log.changes, args)
	})
	require.NoError(t, err)
	_, err = notify.NotifyFor(l, "Count", func(_ any, args *notify.NotifiedEventArgs) {
		log.counts = append(log.counts, args.NewValue)
	})
	require.NoError(t, err)
	return log
}

func TestListAddInsert(t *testing.T) {
	l := New("a")
	log := observe(t, l)

	l.Add("c")
	l.Insert(1, "b")

	assert.Equal(t, []string{"a", "b", "c"}, l.Items())
	require.Len(t, log.changes, 2)
	assert.Equal(t, Add, log.changes[0].Kind)
	assert.Equal(t, 1, log.changes[0].NewIndex)
	assert.Equal(t, []string{"b"}, log.changes[1].NewItems)
	assert.Equal(t, 1, log.changes[1].NewIndex)
	assert.Equal(t, []any{2, 3}, log.counts)
}

func TestListRemove(t *testing.T) {
	l := New(1, 2, 3)
	log := observe(t, l)

	assert.True(t, l.Remove(2))
	assert.False(t, l.Remove(42))
	assert.Equal(t, 3, l.RemoveAt(1))

	assert.Equal(t, []int{1}, l.Items())
	require.Len(t, log.changes, 2)
	assert.Equal(t, Remove, log.changes[0].Kind)
	assert.Equal(t, []int{2}, log.changes[0].OldItems)
	assert.Equal(t, 1, log.changes[0].OldIndex)
	assert.Equal(t, []any{2, 1}, log.counts)
}

func TestListSetRaisesReplace(t *testing.T) {
	l := New("x", "y")
	log := observe(t, l)

	l.Set(1, "z")

	require.Len(t, log.changes, 1)
	c := log.changes[0]
	assert.Equal(t, Replace, c.Kind)
	assert.Equal(t, []string{"y"}, c.OldItems)
	assert.Equal(t, []string{"z"}, c.NewItems)
	assert.Empty(t, log.counts, "replace should not notify Count")
}

func TestListMove(t *testing.T) {
	l := New("a", "b", "c")
	log := observe(t, l)

	l.Move(0, 2)
	l.Move(1, 1)

	assert.Equal(t, []string{"b", "c", "a"}, l.Items())
	require.Len(t, log.changes, 1)
	assert.Equal(t, Move, log.changes[0].Kind)
	assert.Equal(t, 0, log.changes[0].OldIndex)
	assert.Equal(t, 2, log.changes[0].NewIndex)
}

func TestListClearRaisesRemoveOfAll(t *testing.T) {
	l := New(1, 2, 3)
	log := observe(t, l)

	l.Clear()
	l.Clear()

	assert.Equal(t, 0, l.Len())
	require.Len(t, log.changes, 1)
	assert.Equal(t, Remove, log.changes[0].Kind)
	assert.Equal(t, []int{1, 2, 3}, log.changes[0].OldItems)
	assert.Equal(t, 0, log.changes[0].OldIndex)
	assert.Equal(t, []any{0}, log.counts)
}

func TestListReset(t *testing.T) {
	l := New(1, 2)
	log := observe(t, l)

	l.Reset([]int{7, 8})
	l.Reset([]int{9})

	assert.Equal(t, []int{9}, l.Items())
	require.Len(t, log.changes, 2)
	assert.Equal(t, Reset, log.changes[0].Kind)
	assert.Equal(t, []int{1, 2}, log.changes[0].OldItems)
	assert.Equal(t, []any{1}, log.counts, "Count is notified only when it changes")
}

func TestListNotificationDisabled(t *testing.T) {
	l := New[int]()
	log := observe(t, l)

	l.SetNotificationEnabled(false)
	l.Add(1)
	l.Clear()
	l.SetNotificationEnabled(true)
	l.Add(2)

	require.Len(t, log.changes, 1)
	assert.Equal(t, []int{2}, log.changes[0].NewItems)
	assert.Equal(t, []any{1}, log.counts)
}

func TestNotifyForFiltersKinds(t *testing.T) {
	l := New[string]()
	var kinds []Kind

	sub, err := NotifyFor(l, func(_ any, args *ChangeArgs[string]) {
		kinds = append(kinds, args.Kind)
	}, Remove, Reset)
	require.NoError(t, err)

	l.Add("a")
	l.Add("b")
	l.RemoveAt(0)
	l.Reset(nil)

	assert.Equal(t, []Kind{Remove, Reset}, kinds)

	sub.Unsubscribe()
	sub.Unsubscribe()
	l.Add("c")
	l.Clear()
	assert.Len(t, kinds, 2)
	assert.Equal(t, 0, l.CollectionChanged().Len())
}

func TestNotifyForRejectsNil(t *testing.T) {
	_, err := NotifyFor[int](nil, func(any, *ChangeArgs[int]) {})
	assert.ErrorIs(t, err, notify.ErrNilArgument)

	_, err = NotifyFor(New[int](), nil)
	assert.ErrorIs(t, err, notify.ErrNilArgument)
}

func TestListQueries(t *testing.T) {
	l := New("a", "b")

	assert.Equal(t, 1, l.IndexOf("b"))
	assert.Equal(t, -1, l.IndexOf("z"))
	assert.True(t, l.Contains("a"))
	assert.Equal(t, "b", l.At(1))

	var seen []string
	for i, v := range l.All() {
		seen = append(seen, v)
		if i == 0 {
			l.Add("late")
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen, "All iterates over a snapshot")
}

func TestListAsPathTail(t *testing.T) {
	owner := &basket{}
	owner.Bind(owner)
	owner.SetItems(New[string]())

	var paths []string
	seg, err := notify.SubscribePath(owner, "Items.Count", func(_ any, path string, _ *notify.NotifiedEventArgs) {
		paths = append(paths, path)
	})
	require.NoError(t, err)
	defer seg.Unsubscribe()

	owner.Items().Add("apple")

	assert.Equal(t, []string{"Items.Count"}, paths)
}

type basket struct {
	notify.Notifier
}

func (b *basket) Items() *List[string]     { return notify.Get[*List[string]](&b.Notifier, "Items") }
func (b *basket) SetItems(l *List[string]) { notify.Set(&b.Notifier, "Items", l) }

func TestKindString(t *testing.T) {
	assert.Equal(t, "add", Add.String())
	assert.Equal(t, "reset", Reset.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestListOutOfRangeLeavesListUsable(t *testing.T) {
	tests := []struct {
		name string
		op   func(l *List[string])
	}{
		{"insert past end", func(l *List[string]) { l.Insert(4, "x") }},
		{"insert negative", func(l *List[string]) { l.Insert(-1, "x") }},
		{"remove at", func(l *List[string]) { l.RemoveAt(3) }},
		{"set", func(l *List[string]) { l.Set(3, "x") }},
		{"move from", func(l *List[string]) { l.Move(3, 0) }},
		{"move to", func(l *List[string]) { l.Move(0, 3) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New("a", "b", "c")
			log := observe(t, l)

			assert.Panics(t, func() { tt.op(l) })

			assert.Equal(t, 3, l.Count())
			assert.Equal(t, []string{"a", "b", "c"}, l.Items())
			assert.Empty(t, log.changes)

			l.Add("d")
			assert.Equal(t, 4, l.Len())
		})
	}
}
