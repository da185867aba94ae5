package internal

import (
	"reflect"
	"sort"
)

func registerCollectionFuncs(r *FuncRegistry) {
	r.MustRegister(&Func{
		Name:    FuncNameLen,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(args []any) (any, error) {
			return getLength(args[ArgIndexFirst], FuncNameLen, ArgIndexFirst)
		},
	})

	r.MustRegister(&Func{
		Name:    FuncNameFirst,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(args []any) (any, error) {
			items, err := toSlice(args[ArgIndexFirst], FuncNameFirst, ArgIndexFirst)
			if err != nil || len(items) == 0 {
				return nil, err
			}
			return items[0], nil
		},
	})

	r.MustRegister(&Func{
		Name:    FuncNameLast,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(args []any) (any, error) {
			items, err := toSlice(args[ArgIndexFirst], FuncNameLast, ArgIndexFirst)
			if err != nil || len(items) == 0 {
				return nil, err
			}
			return items[len(items)-1], nil
		},
	})

	// keys(m) returns the keys in sorted order so output is stable
	r.MustRegister(&Func{
		Name:    FuncNameKeys,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(args []any) (any, error) {
			m, ok := args[ArgIndexFirst].(map[string]any)
			if !ok {
				return nil, NewFuncTypeError(ErrMsgFuncExpectedMap, FuncNameKeys, ArgIndexFirst)
			}
			keys := sortedKeys(m)
			out := make([]any, len(keys))
			for i, k := range keys {
				out[i] = k
			}
			return out, nil
		},
	})

	// values(m) follows the key order of keys(m)
	r.MustRegister(&Func{
		Name:    FuncNameValues,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(args []any) (any, error) {
			m, ok := args[ArgIndexFirst].(map[string]any)
			if !ok {
				return nil, NewFuncTypeError(ErrMsgFuncExpectedMap, FuncNameValues, ArgIndexFirst)
			}
			keys := sortedKeys(m)
			out := make([]any, len(keys))
			for i, k := range keys {
				out[i] = m[k]
			}
			return out, nil
		},
	})

	r.MustRegister(&Func{
		Name:    FuncNameHas,
		MinArgs: 2,
		MaxArgs: 2,
		Fn: func(args []any) (any, error) {
			m, ok := args[ArgIndexFirst].(map[string]any)
			if !ok {
				return nil, NewFuncTypeError(ErrMsgFuncExpectedMap, FuncNameHas, ArgIndexFirst)
			}
			key, ok := toString(args[ArgIndexSecond])
			if !ok {
				return nil, NewFuncTypeError(ErrMsgFuncExpectedStringKey, FuncNameHas, ArgIndexSecond)
			}
			_, exists := m[key]
			return exists, nil
		},
	})

	// range(end) | range(start, end) | range(start, end, step), end exclusive
	r.MustRegister(&Func{
		Name:    FuncNameRange,
		MinArgs: 1,
		MaxArgs: 3,
		Fn: func(args []any) (any, error) {
			start, end, step := 0, 0, 1
			var err error
			switch len(args) {
			case 1:
				end, err = anyToInt(args[ArgIndexFirst], FuncNameRange, ArgIndexFirst)
			default:
				if start, err = anyToInt(args[ArgIndexFirst], FuncNameRange, ArgIndexFirst); err != nil {
					return nil, err
				}
				if end, err = anyToInt(args[ArgIndexSecond], FuncNameRange, ArgIndexSecond); err != nil {
					return nil, err
				}
				if len(args) == 3 {
					step, err = anyToInt(args[ArgIndexThird], FuncNameRange, ArgIndexThird)
				}
			}
			if err != nil {
				return nil, err
			}
			if step <= 0 {
				return nil, NewFuncTypeError(ErrMsgFuncNegativeStep, FuncNameRange, ArgIndexThird)
			}
			out := make([]any, 0)
			for i := start; i < end; i += step {
				out = append(out, i)
			}
			return out, nil
		},
	})
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// getLength returns the length of strings, slices, arrays and maps.
func getLength(v any, funcName string, argIndex int) (int, error) {
	if v == nil {
		return 0, nil
	}
	switch val := v.(type) {
	case string:
		return len(val), nil
	case []any:
		return len(val), nil
	case map[string]any:
		return len(val), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
		return rv.Len(), nil
	default:
		return 0, NewFuncTypeError(ErrMsgFuncExpectedSlice, funcName, argIndex)
	}
}

// toSlice converts any slice or array to []any.
func toSlice(v any, funcName string, argIndex int) ([]any, error) {
	if v == nil {
		return nil, nil
	}
	if items, ok := v.([]any); ok {
		return items, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, NewFuncTypeError(ErrMsgFuncExpectedSlice, funcName, argIndex)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
