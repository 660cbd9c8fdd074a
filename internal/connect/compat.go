package connect

import (
	"sync"

	"github.com/vk/pipecanvas/internal/model"
)

// Compatibility answers whether data of type src may flow into type dst.
type Compatibility interface {
	Compatible(src, dst model.DataType) bool
}

// CompatibilityFunc adapts a function to the Compatibility interface.
type CompatibilityFunc func(src, dst model.DataType) bool

// Compatible implements Compatibility.
func (f CompatibilityFunc) Compatible(src, dst model.DataType) bool {
	return f(src, dst)
}

// Strict is the base rule: "any" on either side, or equal tags.
var Strict = CompatibilityFunc(func(src, dst model.DataType) bool {
	src, dst = normalize(src), normalize(dst)
	return src == model.Any || dst == model.Any || src == dst
})

func normalize(t model.DataType) model.DataType {
	if t == "" {
		return model.Any
	}
	return t
}

// Table extends Strict with additional directed pairs.
type Table struct {
	mu    sync.RWMutex
	extra map[[2]model.DataType]struct{}
}

// NewTable returns a table that behaves like Strict until pairs are added.
func NewTable() *Table {
	return &Table{extra: make(map[[2]model.DataType]struct{})}
}

// Allow lets data of type src flow into type dst. The reverse direction is
// not implied.
func (t *Table) Allow(src, dst model.DataType) *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.extra[[2]model.DataType{normalize(src), normalize(dst)}] = struct{}{}
	return t
}

// Compatible implements Compatibility.
func (t *Table) Compatible(src, dst model.DataType) bool {
	if Strict(src, dst) {
		return true
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.extra[[2]model.DataType{normalize(src), normalize(dst)}]
	return ok
}
