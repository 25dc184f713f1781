package document

import "strconv"

// Equal reports whether a and b are structurally equal. Objects compare by
// key/value regardless of member order; arrays compare element-wise in
// order. Numbers compare by numeric value when both literals parse, so 1 and
// 1.0 are equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.str == b.str
	case KindNumber:
		return numbersEqual(a.str, b.str)
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return ObjectsEqual(a.obj, b.obj)
	}
	return false
}

// ObjectsEqual compares two objects member by member, ignoring order.
// A nil object equals an empty one.
func ObjectsEqual(a, b *Object) bool {
	if a.Len() != b.Len() {
		return false
	}
	for k, av := range a.All() {
		bv, ok := b.Get(k)
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

func numbersEqual(a, b string) bool {
	if a == b {
		return true
	}
	if ai, err := strconv.ParseInt(a, 10, 64); err == nil {
		if bi, err := strconv.ParseInt(b, 10, 64); err == nil {
			return ai == bi
		}
	}
	af, errA := strconv.ParseFloat(a, 64)
	bf, errB := strconv.ParseFloat(b, 64)
	return errA == nil && errB == nil && af == bf
}
