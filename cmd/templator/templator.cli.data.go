package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// loadData builds the render scope from an inline JSON string or a data file.
// The file format follows its extension; "-" reads JSON from stdin.
func loadData(jsonStr, filePath string, stdin io.Reader) (map[string]any, error) {
	if filePath == "" {
		if jsonStr == "" {
			return make(map[string]any), nil
		}
		return decodeJSON([]byte(jsonStr))
	}

	if filePath == InputSourceStdin {
		raw, err := readInput(filePath, stdin)
		if err != nil {
			return nil, err
		}
		return decodeJSON(raw)
	}

	switch strings.ToLower(filepath.Ext(filePath)) {
	case DataExtHCL:
		return decodeHCLFile(filePath)
	case DataExtJSON:
		raw, err := readInput(filePath, stdin)
		if err != nil {
			return nil, err
		}
		return decodeJSON(raw)
	case DataExtYAML, DataExtYML:
		raw, err := readInput(filePath, stdin)
		if err != nil {
			return nil, err
		}
		return decodeYAML(raw)
	default:
		return nil, fmt.Errorf(FmtWrapDetail, ErrMsgUnsupportedData, filePath)
	}
}

func decodeJSON(raw []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return asObject(normalizeJSON(v))
}

// normalizeJSON turns whole-number float64s into ints so arithmetic in
// templates stays integral.
func normalizeJSON(v any) any {
	switch val := v.(type) {
	case float64:
		if val == float64(int(val)) {
			return int(val)
		}
		return val
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeJSON(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = normalizeJSON(item)
		}
		return val
	default:
		return v
	}
}

func decodeYAML(raw []byte) (map[string]any, error) {
	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if v == nil {
		return make(map[string]any), nil
	}
	return asObject(v)
}

func asObject(v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New(ErrMsgDataNotObject)
	}
	return m, nil
}

// decodeHCLFile reads top-level attributes of an HCL file into a scope.
// Blocks are not supported; attribute expressions may not reference variables.
func decodeHCLFile(path string) (map[string]any, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf(FmtWrapCause, ErrMsgHCLParseFailed, diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf(FmtWrapCause, ErrMsgHCLParseFailed, diags)
	}

	out := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf(FmtWrapCause, ErrMsgHCLParseFailed, diags)
		}
		v, err := ctyValueToInterface(val)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// ctyValueToInterface converts a cty.Value to a plain Go value. Whole numbers
// become ints.
func ctyValueToInterface(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}

	ty := val.Type()
	if ty.IsPrimitiveType() {
		switch ty {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			bf := val.AsBigFloat()
			if bf.IsInt() {
				if i, acc := bf.Int64(); acc == big.Exact {
					return int(i), nil
				}
			}
			f, _ := bf.Float64()
			return f, nil
		case cty.Bool:
			return val.True(), nil
		}
		return nil, fmt.Errorf(FmtWrapDetail, ErrMsgHCLUnsupportedType, ty.FriendlyName())
	}

	if ty.IsObjectType() || ty.IsMapType() {
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			item, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = item
		}
		return out, nil
	}

	if ty.IsTupleType() || ty.IsListType() || ty.IsSetType() {
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			item, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	}

	return nil, fmt.Errorf(FmtWrapDetail, ErrMsgHCLUnsupportedType, ty.FriendlyName())
}
