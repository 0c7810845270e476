package fixed

import (
	"testing"
)

func TestFixedPoint_Arithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Point
		want float64
	}{
		{"add", FromFloat64(1.5).Add(FromFloat64(2.25)), 3.75},
		{"sub", FromFloat64(10).Sub(FromFloat64(4.5)), 5.5},
		{"mul", FromFloat64(2.5).Mul(FromFloat64(4)), 10},
		{"div", FromFloat64(9).Div(FromFloat64(2)), 4.5},
		{"neg", FromFloat64(3).Neg(), -3},
		{"abs", FromFloat64(-3).Abs(), 3},
		{"div_int", FromFloat64(9).DivInt(2), 4.5},
		{"sqrt", FromFloat64(16).Sqrt(), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.got.Float64()
			if !ok {
				t.Fatalf("Float64() conversion failed")
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFixedPoint_Compare(t *testing.T) {
	a := FromInt(1, 0)
	b := FromInt(2, 0)

	if !a.Lt(b) || !b.Gt(a) {
		t.Error("ordering broken")
	}
	if !a.Eq(FromFloat64(1.0)) {
		t.Error("equality should ignore scale")
	}
	if !Zero.IsZero() {
		t.Error("Zero should be zero")
	}
	if !a.Lte(b) || !a.Lte(a) || !b.Gte(a) || !b.Gte(b) {
		t.Error("non-strict ordering broken")
	}
}

func TestFixedPoint_TextRoundTrip(t *testing.T) {
	p := FromFloat64(123.456)

	data, err := p.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}

	var q Point
	if err := q.UnmarshalText(data); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}

	if !p.Eq(q) {
		t.Errorf("round trip mismatch: %s != %s", p, q)
	}
}
