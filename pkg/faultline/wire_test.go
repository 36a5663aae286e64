package faultline

import (
	"math"
	"testing"
)

func encodeObject(t *testing.T, o Object) string {
	t.Helper()
	data, err := (&WireDocument{Object: o}).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return string(data)
}

func TestObject_SetReplacesInPlace(t *testing.T) {
	var o Object
	o.Set("a", 1)
	o.Set("b", 2)
	o.Set("a", 3)

	if got := encodeObject(t, o); got != `{"a":3,"b":2}` {
		t.Errorf("Encode() = %s", got)
	}
	if v, ok := o.Get("a"); !ok || v != 3 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if _, ok := o.Get("missing"); ok {
		t.Error("Get(missing) reported ok")
	}
}

type labeled struct {
	Name string `json:"name"`
}

func TestEncodeValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, `null`},
		{"string escaping", "a\"b\x00", `"a\"b\u0000"`},
		{"markup escaping", "<?php", `"\u003c?php"`},
		{"bool", true, `true`},
		{"int", 42, `42`},
		{"uint64", uint64(7), `7`},
		{"float", 1.5, `1.5`},
		{"NaN", math.NaN(), `null`},
		{"infinity", math.Inf(1), `null`},
		{"string slice", []string{"x", "y"}, `["x","y"]`},
		{"mixed slice", []any{"x", 1, nil}, `["x",1,null]`},
		{"sorted map", map[string]any{"b": 1, "a": []any{}}, `{"a":[],"b":1}`},
		{"string map", map[string]string{"z": "1", "y": "2"}, `{"y":"2","z":"1"}`},
		{"typed map", map[string]int{"b": 2, "a": 1}, `{"a":1,"b":2}`},
		{"nil typed map", map[string]int(nil), `null`},
		{"nested object", Object{{Key: "k", Value: "v"}}, `{"k":"v"}`},
		{"struct", labeled{Name: "n"}, `{"name":"n"}`},
		{"raw number", rawNumber("1.000000"), `1.000000`},
		{"unencodable", func() {}, `"func()"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeObject(t, Object{{Key: "v", Value: tt.value}})
			if want := `{"v":` + tt.want + `}`; got != want {
				t.Errorf("Encode() = %s, want %s", got, want)
			}
		})
	}
}

func TestObject_MarshalJSON(t *testing.T) {
	o := Object{{Key: "z", Value: 1}, {Key: "a", Value: 2}}
	data, err := o.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"z":1,"a":2}` {
		t.Errorf("MarshalJSON() = %s, want insertion order", data)
	}
}
