package property

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind classifies an accessor method name.
type Kind int

const (
	KindNeither Kind = iota
	KindGetter
	KindSetter

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)
