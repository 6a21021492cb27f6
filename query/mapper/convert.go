package mapper

import (
	"database/sql"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

var (
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	timeType    = reflect.TypeOf(time.Time{})
)

// Convert converts a driver value to T. A nil value converts to the zero
// value of T; use Row.IsNull or Nullable to tell NULL apart.
func Convert[T any](v any) (T, error) {
	var out T
	if t, ok := v.(T); ok {
		return t, nil
	}
	if err := assign(reflect.ValueOf(&out).Elem(), v); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// assign stores v into the settable dst, converting where needed.
func assign(dst reflect.Value, v any) error {
	if v == nil {
		dst.SetZero()
		return nil
	}

	if dst.CanAddr() && dst.Addr().Type().Implements(scannerType) {
		if err := dst.Addr().Interface().(sql.Scanner).Scan(v); err != nil {
			return conversionError(v, dst.Type(), err)
		}
		return nil
	}

	dt := dst.Type()
	if dt.Kind() == reflect.Ptr {
		elem := reflect.New(dt.Elem())
		if err := assign(elem.Elem(), v); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}

	src := reflect.ValueOf(v)
	if src.Type().AssignableTo(dt) {
		dst.Set(src)
		return nil
	}

	if dt == timeType {
		t, err := cast.ToTimeE(text(v))
		if err != nil {
			return conversionError(v, dt, err)
		}
		dst.Set(reflect.ValueOf(t))
		return nil
	}

	switch dt.Kind() {
	case reflect.Interface:
		if src.Type().Implements(dt) {
			dst.Set(src)
			return nil
		}

	case reflect.String:
		s, err := cast.ToStringE(text(v))
		if err != nil {
			return conversionError(v, dt, err)
		}
		dst.SetString(s)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt64(v)
		if err != nil {
			return conversionError(v, dt, err)
		}
		if dst.OverflowInt(n) {
			return conversionError(v, dt, fmt.Errorf("%d overflows", n))
		}
		dst.SetInt(n)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toUint64(v)
		if err != nil {
			return conversionError(v, dt, err)
		}
		if dst.OverflowUint(n) {
			return conversionError(v, dt, fmt.Errorf("%d overflows", n))
		}
		dst.SetUint(n)
		return nil

	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(text(v))
		if err != nil {
			return conversionError(v, dt, err)
		}
		dst.SetFloat(f)
		return nil

	case reflect.Bool:
		b, err := cast.ToBoolE(text(v))
		if err != nil {
			return conversionError(v, dt, err)
		}
		dst.SetBool(b)
		return nil

	case reflect.Slice:
		if dt.Elem().Kind() == reflect.Uint8 {
			switch b := v.(type) {
			case []byte:
				dst.SetBytes(append([]byte(nil), b...))
				return nil
			case string:
				dst.SetBytes([]byte(b))
				return nil
			}
		}
	}

	if src.Kind() == dt.Kind() && src.Type().ConvertibleTo(dt) {
		dst.Set(src.Convert(dt))
		return nil
	}

	return conversionError(v, dt, nil)
}

// toInt64 reads text as base 10, so "010" is 10. Floats must be whole.
func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case string:
		return parseInt(x)
	case []byte:
		return parseInt(string(x))
	case float64:
		return wholeInt(x)
	case float32:
		return wholeInt(float64(x))
	}
	return cast.ToInt64E(v)
}

func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return n, nil
	}
	if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
		return wholeInt(f)
	}
	return 0, err
}

func wholeInt(f float64) (int64, error) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%v is not a whole number in range", f)
	}
	return int64(f), nil
}

func toUint64(v any) (uint64, error) {
	switch x := v.(type) {
	case string:
		return parseUint(x)
	case []byte:
		return parseUint(string(x))
	case float64, float32:
		n, err := toInt64(x)
		if err != nil {
			return 0, err
		}
		if n < 0 {
			return 0, fmt.Errorf("%d is negative", n)
		}
		return uint64(n), nil
	}
	return cast.ToUint64E(v)
}

func parseUint(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseUint(s, 10, 64)
	if err == nil {
		return n, nil
	}
	if i, ierr := parseInt(s); ierr == nil && i >= 0 {
		return uint64(i), nil
	}
	return 0, err
}

// text turns driver []byte values into strings for parsing.
func text(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func conversionError(v any, to reflect.Type, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %T to %s", ErrConversion, v, to)
	}
	return fmt.Errorf("%w: %T to %s: %v", ErrConversion, v, to, cause)
}
