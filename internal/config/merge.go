package config

import "reflect"

// Merge composes layers ordered from strongest to weakest. Layers are applied
// weakest first onto a fresh value; a field of a later layer overwrites the
// accumulated one only when it is set. "Set" means non-zero for scalars,
// non-nil for pointers and slices. Maps merge key by key. Nothing in the
// result aliases an input.
func Merge[T any](layers ...T) T {
	var out T
	dst := reflect.ValueOf(&out).Elem()
	for i := len(layers) - 1; i >= 0; i-- {
		apply(dst, reflect.ValueOf(layers[i]))
	}
	return out
}

func apply(dst, src reflect.Value) {
	if !src.IsValid() {
		return
	}
	switch src.Kind() {
	case reflect.Struct:
		for i := 0; i < src.NumField(); i++ {
			if dst.Field(i).CanSet() {
				apply(dst.Field(i), src.Field(i))
			}
		}
	case reflect.Map:
		if src.IsNil() {
			return
		}
		if dst.IsNil() {
			dst.Set(reflect.MakeMapWithSize(src.Type(), src.Len()))
		}
		iter := src.MapRange()
		for iter.Next() {
			dst.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
	case reflect.Pointer, reflect.Slice, reflect.Interface:
		// An explicit pointer wins even when it points at false.
		if !src.IsNil() {
			dst.Set(deepCopy(src))
		}
	default:
		if !src.IsZero() {
			dst.Set(src)
		}
	}
}

func deepCopy(v reflect.Value) reflect.Value {
	out := reflect.New(v.Type()).Elem()
	switch v.Kind() {
	case reflect.Pointer:
		if !v.IsNil() {
			ptr := reflect.New(v.Type().Elem())
			ptr.Elem().Set(deepCopy(v.Elem()))
			out.Set(ptr)
		}
	case reflect.Slice:
		if !v.IsNil() {
			s := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
			for i := 0; i < v.Len(); i++ {
				s.Index(i).Set(deepCopy(v.Index(i)))
			}
			out.Set(s)
		}
	case reflect.Map:
		if !v.IsNil() {
			m := reflect.MakeMapWithSize(v.Type(), v.Len())
			iter := v.MapRange()
			for iter.Next() {
				m.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
			}
			out.Set(m)
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if out.Field(i).CanSet() {
				out.Field(i).Set(deepCopy(v.Field(i)))
			}
		}
	default:
		out.Set(v)
	}
	return out
}
