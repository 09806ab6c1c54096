package httpclient

import (
	"fmt"
	"net/url"
	"reflect"

	"github.com/spf13/cast"
)

// EncodeQuery merges params into q. Nil values are skipped, slices and arrays
// add one value per element under the same key, and everything else is
// converted with cast.ToStringE.
func EncodeQuery(q url.Values, params map[string]any) error {
	for k, v := range params {
		if v == nil {
			continue
		}
		rv := reflect.ValueOf(v)
		if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				s, err := queryValue(k, rv.Index(i).Interface())
				if err != nil {
					return err
				}
				q.Add(k, s)
			}
			continue
		}
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				continue
			}
			v = rv.Elem().Interface()
		}
		s, err := queryValue(k, v)
		if err != nil {
			return err
		}
		q.Set(k, s)
	}
	return nil
}

func queryValue(key string, v any) (string, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("httpclient: query parameter %q: %w", key, err)
	}
	return s, nil
}
