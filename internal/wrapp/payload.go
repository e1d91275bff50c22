package wrapp

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})

	// JSON names of the decimal fields per payload type
	amountNames sync.Map
)

// encodePayload marshals v with every decimal amount written as a JSON
// number, which the provider requires. decimal's own encoding quotes amounts
// unless the process-wide decimal.MarshalJSONWithoutQuotes is set.
func encodePayload(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	names := amountFieldsOf(reflect.TypeOf(v))
	if len(names) == 0 {
		return data, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	return json.Marshal(unquoteAmounts(tree, names))
}

func amountFieldsOf(t reflect.Type) map[string]bool {
	if t == nil {
		return nil
	}
	if cached, ok := amountNames.Load(t); ok {
		return cached.(map[string]bool)
	}
	names := make(map[string]bool)
	collectAmountFields(t, names, make(map[reflect.Type]bool))
	amountNames.Store(t, names)
	return names
}

func collectAmountFields(t reflect.Type, names map[string]bool, seen map[reflect.Type]bool) {
	for {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
			t = t.Elem()
			continue
		}
		break
	}
	if t.Kind() != reflect.Struct || t == decimalType || seen[t] {
		return
	}
	seen[t] = true

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft == decimalType {
			if name == "" {
				name = f.Name
			}
			names[name] = true
			continue
		}
		collectAmountFields(f.Type, names, seen)
	}
}

// unquoteAmounts turns the quoted amounts of a decoded JSON tree into numbers
func unquoteAmounts(v any, names map[string]bool) any {
	switch node := v.(type) {
	case map[string]any:
		for key, child := range node {
			if s, ok := child.(string); ok && names[key] {
				node[key] = json.Number(s)
				continue
			}
			node[key] = unquoteAmounts(child, names)
		}
	case []any:
		for i := range node {
			node[i] = unquoteAmounts(node[i], names)
		}
	}
	return v
}
