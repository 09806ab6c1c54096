package config

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

var (
	durationType  = reflect.TypeOf(time.Duration(0))
	stringMapType = reflect.TypeOf(map[string]string{})
)

// millisecondsDurationHook decodes time.Duration from a Go duration string
// ("1m30s") or from a number of milliseconds (30000 or "30000").
func millisecondsDurationHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		if to != durationType {
			return data, nil
		}
		switch from.Kind() {
		case reflect.String:
			s := strings.TrimSpace(reflect.ValueOf(data).String())
			if s == "" {
				return time.Duration(0), nil
			}
			if ms, err := cast.ToFloat64E(s); err == nil {
				return msToDuration(ms), nil
			}
			return time.ParseDuration(s)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			if from == durationType {
				return data, nil
			}
			ms, err := cast.ToFloat64E(data)
			if err != nil {
				return nil, err
			}
			return msToDuration(ms), nil
		default:
			return data, nil
		}
	}
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// stringMapHook decodes map[string]string from a JSON object string, as
// found in environment variables.
func stringMapHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		if to != stringMapType || from.Kind() != reflect.String {
			return data, nil
		}
		s := strings.TrimSpace(reflect.ValueOf(data).String())
		if s == "" {
			return map[string]string{}, nil
		}
		return cast.ToStringMapStringE(s)
	}
}
