package vec

import "github.com/joshuapare/allockit/alloc"

// Scale returns f applied to every element of src, stored in a vector with
// a fresh allocator configured by opts. Its counter starts at zero and is
// independent of src's.
func Scale[T any](src *Vector[T], f func(T) T, opts *alloc.Options) (*Vector[T], error) {
	a := alloc.New[T](opts)
	defer a.Release()
	return fill(New(a), src, f)
}

// SharedScale is Scale, but the result draws from src's allocator lineage.
func SharedScale[T any](src *Vector[T], f func(T) T) (*Vector[T], error) {
	return fill(New(src.a), src, f)
}

// CopyScale clones src and applies f in place.
func CopyScale[T any](src *Vector[T], f func(T) T) (*Vector[T], error) {
	out, err := src.Clone()
	if err != nil {
		return nil, err
	}
	for i, x := range out.Values() {
		out.Set(i, f(x))
	}
	return out, nil
}

func fill[T any](out, src *Vector[T], f func(T) T) (*Vector[T], error) {
	if err := out.Reserve(src.Len()); err != nil {
		_ = out.Release()
		return nil, err
	}
	for _, x := range src.Values() {
		if err := out.PushBack(f(x)); err != nil {
			_ = out.Release()
			return nil, err
		}
	}
	return out, nil
}
