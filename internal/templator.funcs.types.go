package internal

import (
	"fmt"
	"reflect"
	"strconv"
)

// Type names reported by typeOf
const (
	TypeNameNil    = "nil"
	TypeNameString = "string"
	TypeNameInt    = "int"
	TypeNameFloat  = "float"
	TypeNameBool   = "bool"
	TypeNameList   = "list"
	TypeNameMap    = "map"
)

func registerTypeFuncs(r *FuncRegistry) {
	r.MustRegister(&Func{
		Name:    FuncNameToString,
		MinArgs: 1,
		MaxArgs: 1,
		Fn:      func(args []any) (any, error) { return Stringify(args[ArgIndexFirst]), nil },
	})

	r.MustRegister(&Func{
		Name:    FuncNameToInt,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(args []any) (any, error) {
			return anyToInt(args[ArgIndexFirst], FuncNameToInt, ArgIndexFirst)
		},
	})

	r.MustRegister(&Func{
		Name:    FuncNameToFloat,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(args []any) (any, error) {
			return anyToFloat(args[ArgIndexFirst], FuncNameToFloat, ArgIndexFirst)
		},
	})

	r.MustRegister(&Func{
		Name:    FuncNameToBool,
		MinArgs: 1,
		MaxArgs: 1,
		Fn:      func(args []any) (any, error) { return IsTruthy(args[ArgIndexFirst]), nil },
	})

	r.MustRegister(&Func{
		Name:    FuncNameTypeOf,
		MinArgs: 1,
		MaxArgs: 1,
		Fn:      func(args []any) (any, error) { return typeOf(args[ArgIndexFirst]), nil },
	})

	r.MustRegister(&Func{
		Name:    FuncNameIsNil,
		MinArgs: 1,
		MaxArgs: 1,
		Fn:      func(args []any) (any, error) { return args[ArgIndexFirst] == nil, nil },
	})

	r.MustRegister(&Func{
		Name:    FuncNameIsEmpty,
		MinArgs: 1,
		MaxArgs: 1,
		Fn:      func(args []any) (any, error) { return isEmpty(args[ArgIndexFirst]), nil },
	})
}

// Stringify converts a value to its printed form: nil prints nothing, true
// prints "1", false prints nothing, floats drop trailing zeros.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return StringValueEmpty
	case string:
		return val
	case bool:
		if val {
			return StringValueTrue
		}
		return StringValueFalse
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, IntBase10)
	case float64:
		return strconv.FormatFloat(val, FloatFormatFlag, FloatPrecisionAll, FloatBitSize64)
	case float32:
		return strconv.FormatFloat(float64(val), FloatFormatFlag, FloatPrecisionAll, 32)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// toString accepts values that already are textual.
func toString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return StringValueEmpty, true
	case string:
		return val, true
	case fmt.Stringer:
		return val.String(), true
	default:
		return StringValueEmpty, false
	}
}

func anyToInt(v any, funcName string, argIndex int) (int, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	case string:
		if n, err := strconv.Atoi(val); err == nil {
			return n, nil
		}
		if f, err := strconv.ParseFloat(val, FloatBitSize64); err == nil {
			return int(f), nil
		}
	default:
		if n, f, isInt, ok := toNumber(val); ok {
			if isInt {
				return n, nil
			}
			return int(f), nil
		}
	}
	return 0, NewFuncTypeError(ErrMsgFuncConversionFailed, funcName, argIndex)
}

func anyToFloat(v any, funcName string, argIndex int) (float64, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	case string:
		if f, err := strconv.ParseFloat(val, FloatBitSize64); err == nil {
			return f, nil
		}
	default:
		if _, f, _, ok := toNumber(val); ok {
			return f, nil
		}
	}
	return 0, NewFuncTypeError(ErrMsgFuncConversionFailed, funcName, argIndex)
}

// IsTruthy coerces a value to a condition result. nil, false, zero numbers,
// "" and "0" and empty collections are false; everything else is true.
func IsTruthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != "" && val != "0"
	}

	if _, f, _, ok := toNumber(v); ok {
		return f != 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	default:
		return true
	}
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
		return rv.Len() == 0
	default:
		return false
	}
}

func typeOf(v any) string {
	switch v.(type) {
	case nil:
		return TypeNameNil
	case string:
		return TypeNameString
	case int, int64, int32:
		return TypeNameInt
	case float64, float32:
		return TypeNameFloat
	case bool:
		return TypeNameBool
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return TypeNameList
	case reflect.Map, reflect.Struct:
		return TypeNameMap
	default:
		return fmt.Sprintf("%T", v)
	}
}
