package tensor

import "fmt"

// Array is a dense N-dimensional array with element type T.
//
// An Array either owns its storage (created by Zeros, Full, FromSlice, ...)
// or is a view produced by View, in which case it shares the backing slice
// of its parent and addresses it through an offset and per-axis strides.
// Writes through a view are visible in the parent and vice versa.
//
// Example:
//
//	a, _ := tensor.Arange[int64](Shape{5, 10})
//	v, _ := a.View(Slice{{0, 3, 1}, {4, 7, 1}})
//	v.Set(-1, 0, 0) // a.At(0, 4) == -1
type Array[T DType] struct {
	data    []T   // Backing storage, shared between an array and its views
	shape   Shape // Array dimensions
	strides []int // Element strides per axis
	offset  int   // Position of element (0, ..., 0) in data
	view    bool  // Whether this array aliases another array's storage
}

// newArray allocates a zero-filled contiguous array.
func newArray[T DType](shape Shape) (*Array[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Array[T]{
		data:    make([]T, shape.NumElements()),
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
	}, nil
}

// Shape returns the array's shape.
func (a *Array[T]) Shape() Shape {
	return a.shape
}

// Strides returns the array's element strides.
func (a *Array[T]) Strides() []int {
	return a.strides
}

// Ndim returns the number of dimensions.
func (a *Array[T]) Ndim() int {
	return len(a.shape)
}

// NumElements returns the total number of elements.
func (a *Array[T]) NumElements() int {
	return a.shape.NumElements()
}

// DType returns the array's data type.
func (a *Array[T]) DType() DataType {
	return TypeOf[T]()
}

// IsView reports whether the array aliases the storage of another array.
func (a *Array[T]) IsView() bool {
	return a.view
}

// IsContiguous reports whether the elements are laid out row-major without gaps.
func (a *Array[T]) IsContiguous() bool {
	expected := a.shape.ComputeStrides()
	for i := range expected {
		if a.shape[i] > 1 && a.strides[i] != expected[i] {
			return false
		}
	}
	return true
}

// SharesStorage reports whether a and other are backed by the same memory.
func (a *Array[T]) SharesStorage(other *Array[T]) bool {
	if len(a.data) == 0 || len(other.data) == 0 {
		return false
	}
	return &a.data[0] == &other.data[0]
}

// offsetOf converts a multi-index into a position in the backing slice.
func (a *Array[T]) offsetOf(indices []int) int {
	if len(indices) != len(a.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(a.shape), len(indices)))
	}
	offset := a.offset
	for i, idx := range indices {
		if idx < 0 || idx >= a.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, a.shape[i]))
		}
		offset += idx * a.strides[i]
	}
	return offset
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (a *Array[T]) At(indices ...int) T {
	return a.data[a.offsetOf(indices)]
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (a *Array[T]) Set(value T, indices ...int) {
	a.data[a.offsetOf(indices)] = value
}

// View returns an array aliasing the region addressed by s.
//
// No data is copied: the result shares storage with a. Every range must lie
// within the array, select at least one element and have a positive step.
func (a *Array[T]) View(s Slice) (*Array[T], error) {
	if len(s) != len(a.shape) {
		return nil, fmt.Errorf("view: descriptor has %d axes, array has %d", len(s), len(a.shape))
	}

	shape := make(Shape, len(s))
	strides := make([]int, len(s))
	offset := a.offset
	for d, r := range s {
		if r.Step < 1 {
			return nil, fmt.Errorf("view: axis %d: step %d must be positive", d, r.Step)
		}
		if r.Start < 0 || r.Stop > a.shape[d] || r.Start >= r.Stop {
			return nil, fmt.Errorf("view: axis %d: range %s out of bounds for size %d", d, r, a.shape[d])
		}
		shape[d] = r.Len()
		strides[d] = a.strides[d] * r.Step
		offset += r.Start * a.strides[d]
	}

	return &Array[T]{
		data:    a.data,
		shape:   shape,
		strides: strides,
		offset:  offset,
		view:    true,
	}, nil
}

// Contiguous returns a row-major deep copy of the array that owns its storage.
func (a *Array[T]) Contiguous() *Array[T] {
	out := &Array[T]{
		data:    make([]T, a.NumElements()),
		shape:   a.shape.Clone(),
		strides: a.shape.ComputeStrides(),
	}
	copyRegion(out, a)
	return out
}

// Clone is an alias of Contiguous.
func (a *Array[T]) Clone() *Array[T] {
	return a.Contiguous()
}

// CopyFrom copies every element of src into a. Both arrays must have the same shape.
func (a *Array[T]) CopyFrom(src *Array[T]) error {
	if !a.shape.Equal(src.shape) {
		return fmt.Errorf("copy: shape %v does not match destination shape %v", src.shape, a.shape)
	}
	copyRegion(a, src)
	return nil
}

// Fill sets every element to value.
func (a *Array[T]) Fill(value T) {
	a.Each(func(idx []int, _ T) {
		a.Set(value, idx...)
	})
}

// Data returns the elements in row-major order.
//
// WARNING: when the array is contiguous the returned slice aliases the
// array's storage; otherwise it is a fresh copy.
func (a *Array[T]) Data() []T {
	if a.IsContiguous() {
		return a.data[a.offset : a.offset+a.NumElements()]
	}
	return a.Contiguous().data
}

// Each calls fn for every element in row-major order. The idx slice is
// reused between calls and must not be retained.
func (a *Array[T]) Each(fn func(idx []int, v T)) {
	idx := make([]int, len(a.shape))
	for ok := true; ok; ok = a.shape.Next(idx) {
		fn(idx, a.data[a.offsetOf(idx)])
	}
}

// Equal reports whether both arrays have the same shape and elements.
func (a *Array[T]) Equal(other *Array[T]) bool {
	if !a.shape.Equal(other.shape) {
		return false
	}
	equal := true
	a.Each(func(idx []int, v T) {
		if equal && other.At(idx...) != v {
			equal = false
		}
	})
	return equal
}

// String returns a human-readable representation of the array.
func (a *Array[T]) String() string {
	kind := "Array"
	if a.view {
		kind = "View"
	}
	return fmt.Sprintf("%s[%s]%v", kind, a.DType(), a.shape)
}

// copyRegion copies src into dst element-wise. Shapes must match.
// Rows along the last axis are moved with copy() when both sides are unit-strided.
func copyRegion[T DType](dst, src *Array[T]) {
	ndim := len(src.shape)
	last := ndim - 1
	rowLen := src.shape[last]
	fastRows := dst.strides[last] == 1 && src.strides[last] == 1

	outer := src.shape[:last]
	idx := make([]int, last)
	for ok := true; ok; ok = outer.Next(idx) {
		srcPos, dstPos := src.offset, dst.offset
		for d, i := range idx {
			srcPos += i * src.strides[d]
			dstPos += i * dst.strides[d]
		}
		if fastRows {
			copy(dst.data[dstPos:dstPos+rowLen], src.data[srcPos:srcPos+rowLen])
			continue
		}
		for k := 0; k < rowLen; k++ {
			dst.data[dstPos+k*dst.strides[last]] = src.data[srcPos+k*src.strides[last]]
		}
	}
}
