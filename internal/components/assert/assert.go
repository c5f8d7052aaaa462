// Package assert panics on programmer errors, it is not meant for
// validating input.
package assert

import (
	"fmt"
	"reflect"
)

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// NotNil also catches nil pointers wrapped in an interface, ex. a nil
// *sql.DB passed as `any`.
func NotNil(value any) {
	if isNil(value) {
		panic(fmt.Sprintf("expected value of type %T to be not nil", value))
	}
}

func Positive[T ~int | ~int64 | ~float64](value T, name string) {
	if value <= 0 {
		panic(fmt.Sprintf("expected %s to be positive, got %v", name, value))
	}
}
