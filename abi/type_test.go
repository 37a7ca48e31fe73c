package abi

import "testing"

func TestTypeOfRoundTrip(t *testing.T) {
	cases := []string{
		"uint8", "uint64", "uint512",
		"byte", "bool", "address", "string",
		"ufixed8x1", "ufixed256x160",
		"uint32[]", "uint32[10]",
		"()", "(uint64,bool)", "(uint64,(bool,string),byte[4])",
	}
	for _, s := range cases {
		t.Run(s, func(t *testing.T) {
			typ, err := TypeOf(s)
			if err != nil {
				t.Fatalf("TypeOf(%q) unexpected error: %v", s, err)
			}
			if got := typ.String(); got != s {
				t.Fatalf("round-trip mismatch: parse(%q).String() = %q", s, got)
			}
		})
	}
}

func TestTypeOfInvalid(t *testing.T) {
	cases := []string{
		"uint7", "uint0", "uint520",
		"(byte,,byte)", "((uint32)", "uint64[0x21]", "",
		"ufixed8x0", "ufixed8x161", "ufixed7x1",
		"(byte,byte", "uint64]",
	}
	for _, s := range cases {
		t.Run(s, func(t *testing.T) {
			if _, err := TypeOf(s); err == nil {
				t.Fatalf("TypeOf(%q) expected error, got none", s)
			}
		})
	}
}

func TestTypeOfEmptyTuple(t *testing.T) {
	typ, err := TypeOf("()")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(typ.ChildTypes()) != 0 {
		t.Fatalf("expected zero children, got %d", len(typ.ChildTypes()))
	}
}

func TestIsDynamic(t *testing.T) {
	cases := []struct {
		typ     string
		dynamic bool
	}{
		{"uint64", false},
		{"string", true},
		{"uint64[]", true},
		{"uint64[5]", false},
		{"(uint64,string)", true},
		{"(uint64,bool)", false},
		{"(uint64,(bool,string))", true},
		{"string[3]", true},
	}
	for _, c := range cases {
		t.Run(c.typ, func(t *testing.T) {
			typ, err := TypeOf(c.typ)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := typ.IsDynamic(); got != c.dynamic {
				t.Fatalf("IsDynamic(%q) = %v, want %v", c.typ, got, c.dynamic)
			}
		})
	}
}

func TestByteLen(t *testing.T) {
	cases := []struct {
		typ string
		len int
	}{
		{"address", 32},
		{"byte", 1},
		{"uint64", 8},
		{"bool", 1},
		{"bool[5]", 1},
		{"bool[9]", 2},
		{"bool[16]", 2},
		{"(bool,bool,bool,bool,bool)", 1},
		{"uint32[3]", 12},
		{"(uint64,bool,bool,byte)", 8 + 1 + 1},
	}
	for _, c := range cases {
		t.Run(c.typ, func(t *testing.T) {
			typ, err := TypeOf(c.typ)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, err := typ.ByteLen()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.len {
				t.Fatalf("ByteLen(%q) = %d, want %d", c.typ, got, c.len)
			}
		})
	}
}

func TestByteLenRejectsDynamic(t *testing.T) {
	typ, err := TypeOf("string")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := typ.ByteLen(); err == nil {
		t.Fatalf("expected error computing ByteLen of a dynamic type")
	}
}
