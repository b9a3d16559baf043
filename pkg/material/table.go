package material

import "fmt"

// Handle refers to a Material stored in a Table
type Handle uint32

// Table owns every material of a scene. Primitives reference entries by Handle,
// so many primitives can share one material without pointers.
// A Table is read-only once rendering starts.
type Table struct {
	materials []Material
}

// NewTable creates an empty material table
func NewTable() *Table {
	return &Table{}
}

// Add stores a material and returns its handle
func (t *Table) Add(m Material) Handle {
	t.materials = append(t.materials, m)
	return Handle(len(t.materials) - 1)
}

// Get returns the material for a handle. It panics on a handle this table never issued.
func (t *Table) Get(h Handle) Material {
	if int(h) >= len(t.materials) {
		panic(fmt.Sprintf("material: handle %d out of range (table has %d materials)", h, len(t.materials)))
	}
	return t.materials[h]
}

// Len returns the number of stored materials
func (t *Table) Len() int {
	return len(t.materials)
}
