package nodeid

// ID identifies a node on the canvas.
type ID string

// String implements fmt.Stringer.
func (id ID) String() string {
	return string(id)
}

const (
	// Prefix starts every placed node id.
	Prefix = "node-"

	// PreviewPrefix starts every preview record id.
	PreviewPrefix = "preview:"

	// Base is the first counter value after a reset.
	Base uint64 = 1
)
