package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	link Node[widget]
	name string
}

func newWidget(name string) *widget {
	w := &widget{name: name}
	w.link.Owner = w
	return w
}

func TestList_EmptyByDefault(t *testing.T) {
	l := New[widget]()
	assert.True(t, l.Empty())
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, l.Back())
}

func TestList_PushBackAndBack(t *testing.T) {
	l := New[widget]()
	a, b, c := newWidget("a"), newWidget("b"), newWidget("c")

	l.PushBack(&a.link)
	assert.Equal(t, a, l.Back())

	l.PushBack(&b.link)
	assert.Equal(t, b, l.Back(), "Back must track the most recently pushed node")

	l.PushBack(&c.link)
	assert.Equal(t, c, l.Back())
	assert.Equal(t, 3, l.Len())
	assert.False(t, l.Empty())
}

func TestList_IterationOrderIsInsertionOrder(t *testing.T) {
	l := New[widget]()
	a, b, c := newWidget("a"), newWidget("b"), newWidget("c")
	l.PushBack(&a.link)
	l.PushBack(&b.link)
	l.PushBack(&c.link)

	var names []string
	l.ForEach(func(w *widget) { names = append(names, w.name) })
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestList_EraseMiddle(t *testing.T) {
	l := New[widget]()
	a, b, c := newWidget("a"), newWidget("b"), newWidget("c")
	l.PushBack(&a.link)
	l.PushBack(&b.link)
	l.PushBack(&c.link)

	l.Erase(&b.link)
	require.Equal(t, 2, l.Len())

	var names []string
	l.ForEach(func(w *widget) { names = append(names, w.name) })
	assert.Equal(t, []string{"a", "c"}, names)
	assert.False(t, b.link.Linked())
}

func TestList_EraseLastUpdatesBack(t *testing.T) {
	l := New[widget]()
	a, b := newWidget("a"), newWidget("b")
	l.PushBack(&a.link)
	l.PushBack(&b.link)

	l.Erase(&b.link)
	assert.Equal(t, a, l.Back())

	l.Erase(&a.link)
	assert.True(t, l.Empty())
	assert.Nil(t, l.Back())
}

func TestList_ReinsertAfterErase(t *testing.T) {
	l := New[widget]()
	a := newWidget("a")
	l.PushBack(&a.link)
	l.Erase(&a.link)
	assert.False(t, a.link.Linked())

	l.PushBack(&a.link)
	assert.True(t, a.link.Linked())
	assert.Equal(t, a, l.Back())
}
