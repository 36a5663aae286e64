// wire.go implements the ordered JSON document sent to the ingestion service.

package faultline

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	"go.elastic.co/fastjson"
)

// Field is one member of an ordered JSON object.
type Field struct {
	Key   string
	Value any
}

// Object is a JSON object that encodes its fields in order. Setting an
// existing key replaces its value in place.
type Object []Field

// Set adds or replaces key.
func (o *Object) Set(key string, value any) {
	for i := range *o {
		if (*o)[i].Key == key {
			(*o)[i].Value = value
			return
		}
	}
	*o = append(*o, Field{Key: key, Value: value})
}

// Get returns the value of key.
func (o Object) Get(key string) (any, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in encoding order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, f := range o {
		keys[i] = f.Key
	}
	return keys
}

// MarshalFastJSON implements fastjson.Marshaler.
func (o Object) MarshalFastJSON(w *fastjson.Writer) error {
	w.RawByte('{')
	for i, f := range o {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(f.Key)
		w.RawByte(':')
		if err := encodeValue(w, f.Value); err != nil {
			return fmt.Errorf("field %q: %w", f.Key, err)
		}
	}
	w.RawByte('}')
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o Object) MarshalJSON() ([]byte, error) {
	var w fastjson.Writer
	if err := o.MarshalFastJSON(&w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// WireDocument is the assembled event payload.
type WireDocument struct {
	Object
}

// Encode returns the JSON encoding of the document.
func (d *WireDocument) Encode() ([]byte, error) {
	var w fastjson.Writer
	if err := d.MarshalFastJSON(&w); err != nil {
		return nil, fmt.Errorf("encode wire document: %w", err)
	}
	return w.Bytes(), nil
}

// rawNumber is a preformatted JSON number.
type rawNumber string

func encodeValue(w *fastjson.Writer, v any) error {
	switch x := v.(type) {
	case nil:
		w.RawString("null")
	case fastjson.Marshaler:
		return x.MarshalFastJSON(w)
	case rawNumber:
		w.RawString(string(x))
	case string:
		w.String(x)
	case bool:
		w.Bool(x)
	case int:
		w.Int64(int64(x))
	case int32:
		w.Int64(int64(x))
	case int64:
		w.Int64(x)
	case uint64:
		w.Uint64(x)
	case float32:
		encodeFloat(w, float64(x))
	case float64:
		encodeFloat(w, x)
	case []string:
		w.RawByte('[')
		for i, s := range x {
			if i > 0 {
				w.RawByte(',')
			}
			w.String(s)
		}
		w.RawByte(']')
	case []any:
		w.RawByte('[')
		for i, e := range x {
			if i > 0 {
				w.RawByte(',')
			}
			if err := encodeValue(w, e); err != nil {
				return err
			}
		}
		w.RawByte(']')
	case []Object:
		w.RawByte('[')
		for i, e := range x {
			if i > 0 {
				w.RawByte(',')
			}
			if err := e.MarshalFastJSON(w); err != nil {
				return err
			}
		}
		w.RawByte(']')
	case map[string]string:
		return encodeMap(w, reflect.ValueOf(x))
	case map[string]any:
		return encodeMap(w, reflect.ValueOf(x))
	default:
		return encodeOther(w, v)
	}
	return nil
}

// encodeMap writes a string-keyed map with keys in sorted order.
func encodeMap(w *fastjson.Writer, m reflect.Value) error {
	keys := make([]string, 0, m.Len())
	iter := m.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().String())
	}
	sort.Strings(keys)

	w.RawByte('{')
	for i, k := range keys {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(k)
		w.RawByte(':')
		if err := encodeValue(w, m.MapIndex(reflect.ValueOf(k).Convert(m.Type().Key())).Interface()); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
	}
	w.RawByte('}')
	return nil
}

func encodeFloat(w *fastjson.Writer, f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		w.RawString("null")
		return
	}
	w.RawString(strconv.FormatFloat(f, 'g', -1, 64))
}

// encodeOther handles values outside the document's own vocabulary. String
// keyed maps keep the sorted encoding; everything else goes through
// encoding/json and degrades to its type name when that fails.
func encodeOther(w *fastjson.Writer, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		if rv.IsNil() {
			w.RawString("null")
			return nil
		}
		return encodeMap(w, rv)
	}
	data, err := json.Marshal(v)
	if err != nil {
		w.String(fmt.Sprintf("%T", v))
		return nil
	}
	w.RawBytes(data)
	return nil
}
