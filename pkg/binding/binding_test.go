package binding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narvi-dev/narvi/pkg/notify"
)

type field struct {
	notify.Notifier
	writes int
}

func newField() *field {
	f := &field{}
	f.Bind(f)
	return f
}

func (f *field) Text() string { return notify.Get[string](&f.Notifier, "Text") }

func (f *field) SetText(v string) {
	f.writes++
	notify.Set(&f.Notifier, "Text", v)
}

func (f *field) Size() int { return notify.Get[int](&f.Notifier, "Size") }

func (f *field) SetSize(v int) error {
	if v < 0 {
		return errors.New("negative size")
	}
	notify.Set(&f.Notifier, "Size", v)
	return nil
}

func (f *field) Length() int { return len(f.Text()) }

func TestTwoWayBindingConverges(t *testing.T) {
	a, b := newField(), newField()
	bnd, err := New(Profile{a, "Text"}, Profile{b, "Text"}, TwoWay)
	require.NoError(t, err)
	defer bnd.Release()

	a.SetText("hello")
	assert.Equal(t, "hello", b.Text())
	assert.Equal(t, 1, a.writes, "the copy must not write back to the origin")
	assert.Equal(t, 1, b.writes)

	b.SetText("world")
	assert.Equal(t, "world", a.Text())
	assert.Equal(t, 2, a.writes)
	assert.Equal(t, 2, b.writes)
}

func TestOneWayBindings(t *testing.T) {
	tests := []struct {
		name      string
		mode      Mode
		leftSeen  string
		rightSeen string
	}{
		{"left to right", LeftToRight, "from-right", "from-left"},
		{"right to left", RightToLeft, "from-right", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, r := newField(), newField()
			bnd, err := New(Profile{l, "Text"}, Profile{r, "Text"}, tt.mode)
			require.NoError(t, err)
			defer bnd.Release()

			l.SetText("from-left")
			if tt.mode == LeftToRight {
				assert.Equal(t, tt.rightSeen, r.Text())
			} else {
				assert.Empty(t, r.Text())
			}

			r.SetText("from-right")
			if tt.mode == RightToLeft {
				assert.Equal(t, tt.leftSeen, l.Text())
			} else {
				assert.Equal(t, "from-left", l.Text())
			}
		})
	}
}

func TestIndependentBindingsDoNotShareGuard(t *testing.T) {
	a, b, c := newField(), newField(), newField()
	ab, err := New(Profile{a, "Text"}, Profile{b, "Text"}, LeftToRight)
	require.NoError(t, err)
	defer ab.Release()
	bc, err := New(Profile{b, "Text"}, Profile{c, "Text"}, LeftToRight)
	require.NoError(t, err)
	defer bc.Release()

	a.SetText("chain")

	assert.Equal(t, "chain", c.Text(), "a nested copy by another binding should go through")
}

func TestBindingRelease(t *testing.T) {
	a, b := newField(), newField()
	bnd, err := New(Profile{a, "Text"}, Profile{b, "Text"}, TwoWay)
	require.NoError(t, err)

	bnd.Release()
	bnd.Release()

	a.SetText("after")
	assert.Empty(t, b.Text())
	assert.Equal(t, 0, a.PropertyChanged().Len())
	assert.Equal(t, 0, b.PropertyChanged().Len())
}

func TestBindingSync(t *testing.T) {
	a, b := newField(), newField()
	a.SetText("initial")

	bnd, err := New(Profile{a, "Text"}, Profile{b, "Text"}, TwoWay)
	require.NoError(t, err)
	defer bnd.Release()

	assert.Empty(t, b.Text())
	require.NoError(t, bnd.Sync())
	assert.Equal(t, "initial", b.Text())
}

func TestBindingRecordsFailedCopy(t *testing.T) {
	a, b := newField(), newField()
	bnd, err := New(Profile{a, "Size"}, Profile{b, "Size"}, LeftToRight)
	require.NoError(t, err)
	defer bnd.Release()

	a.SetSize(3)
	assert.Equal(t, 3, b.Size())
	assert.NoError(t, bnd.Err())

	// A value the right side rejects: bypass a's own validation.
	notify.Set(&a.Notifier, "Size", -1)
	assert.EqualError(t, bnd.Err(), "negative size")
	assert.Equal(t, 3, b.Size())
}

func TestNewBindingErrors(t *testing.T) {
	a, b := newField(), newField()
	var nilField *field

	tests := []struct {
		name  string
		left  Profile
		right Profile
		mode  Mode
		want  error
	}{
		{"type mismatch", Profile{a, "Text"}, Profile{b, "Size"}, TwoWay, notify.ErrTypeMismatch},
		{"unknown property", Profile{a, "Color"}, Profile{b, "Text"}, TwoWay, notify.ErrUnknownProperty},
		{"blank property", Profile{a, " "}, Profile{b, "Text"}, TwoWay, ErrIncompleteProfile},
		{"nil source", Profile{nil, "Text"}, Profile{b, "Text"}, TwoWay, ErrIncompleteProfile},
		{"typed nil source", Profile{a, "Text"}, Profile{nilField, "Text"}, TwoWay, ErrIncompleteProfile},
		{"unknown mode", Profile{a, "Text"}, Profile{b, "Text"}, Mode(7), ErrUnknownMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.left, tt.right, tt.mode)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, got)
		})
	}

	// A rejected mode leaves no subscription behind.
	a.SetText("kept")
	assert.Equal(t, "", b.Text())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "two-way", TwoWay.String())
	assert.Equal(t, "right-to-left", RightToLeft.String())
	assert.Equal(t, "unknown", Mode(9).String())
}
