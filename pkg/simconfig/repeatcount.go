package simconfig

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// RepeatCounts is the frame count per Eb/N0 point. It decodes from either a
// bare integer (one shared count for every point) or a list (one count per
// point, in ebn0s order), matching the "integer or list matching ebn0s"
// config surface.
type RepeatCounts []int

// ForIndex returns the frame count for the i'th Eb/N0 point: rc[i] when rc
// holds one value per point, or the single shared value when rc has length 1.
func (rc RepeatCounts) ForIndex(i int) int {
	if len(rc) == 1 {
		return rc[0]
	}
	return rc[i]
}

// MarshalJSON emits a bare number when every point shares one count, and an
// array otherwise, so round-tripped config/report JSON mirrors whichever
// form the user supplied.
func (rc RepeatCounts) MarshalJSON() ([]byte, error) {
	if len(rc) == 1 {
		return []byte(fmt.Sprintf("%d", rc[0])), nil
	}
	buf := []byte{'['}
	for i, v := range rc {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, []byte(fmt.Sprintf("%d", v))...)
	}
	buf = append(buf, ']')
	return buf, nil
}

// repeatCountsHook lets viper/mapstructure decode a scalar int or a list of
// ints into RepeatCounts, covering both "repeat_count: 10" and
// "repeat_count: [10, 20, 30]" config forms.
func repeatCountsHook() mapstructure.DecodeHookFuncType {
	target := reflect.TypeOf(RepeatCounts(nil))
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		if to != target {
			return data, nil
		}
		switch from.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return RepeatCounts{int(reflect.ValueOf(data).Int())}, nil
		case reflect.Float32, reflect.Float64:
			return RepeatCounts{int(reflect.ValueOf(data).Float())}, nil
		case reflect.Slice, reflect.Array:
			v := reflect.ValueOf(data)
			out := make(RepeatCounts, v.Len())
			for i := 0; i < v.Len(); i++ {
				elem := v.Index(i)
				for elem.Kind() == reflect.Interface {
					elem = elem.Elem()
				}
				switch elem.Kind() {
				case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
					out[i] = int(elem.Int())
				case reflect.Float32, reflect.Float64:
					out[i] = int(elem.Float())
				default:
					return nil, fmt.Errorf("repeat_count: unsupported element type %s", elem.Kind())
				}
			}
			return out, nil
		default:
			return data, nil
		}
	}
}
