package cache

import (
	"reflect"

	"github.com/vvka-141/fscache/pkg/fscache"
)

// valuesEqual compares attribute values. Numbers compare by value whatever
// their Go type, since codecs do not preserve int64 versus float64.
func valuesEqual(a, b fscache.Value) bool {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return fa == fb
		}
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v fscache.Value) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
