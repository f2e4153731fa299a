// Package tensor provides the core tensor types shared by all backends.
package tensor

// DType constrains the element types a Tensor can carry.
// The model path runs on float32; the physics generator works in float64.
type DType interface {
	~float32 | ~float64
}

// DataType is the runtime type tag of a RawTensor.
type DataType int

// Supported element types.
const (
	Float32 DataType = iota
	Float64
)

// Size returns the byte size of one element.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// inferDataType maps a generic element type to its runtime tag.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		panic("unsupported type")
	}
}
