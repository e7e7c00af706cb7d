package tools

import (
	"errors"
	"math"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"1+2", 3},
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"10/4", 2.5},
		{"10 % 3", 1},
		{"2^10", 1024},
		{"2^3^2", 512},
		{"-2^2", -4},
		{"(-2)^2", 4},
		{"--3", 3},
		{"+5-2", 3},
		{"1.5e2 + 0.5", 150.5},
		{".5*4", 2},
		{"2^-1", 0.5},
		{" 7 - 2 - 1 ", 4},
		{"8/2/2", 2},
		{"3×4÷6", 2},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v", tt.expr, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		expr string
		want error
	}{
		{"1/0", ErrDivisionByZero},
		{"5%0", ErrDivisionByZero},
		{"", ErrSyntax},
		{"1+", ErrSyntax},
		{"(1+2", ErrSyntax},
		{"1+2)", ErrSyntax},
		{"abc", ErrSyntax},
		{"1..2", ErrSyntax},
		{"(-1)^0.5", ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if _, err := Evaluate(tt.expr); !errors.Is(err, tt.want) {
				t.Errorf("Evaluate(%q) error = %v, want %v", tt.expr, err, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3, "3"},
		{-12, "-12"},
		{2.5, "2.5"},
		{1.0 / 3, "0.333333333333"},
		{1e20, "1e+20"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCalculatorKeypad(t *testing.T) {
	c := &calculatorTool{}
	for _, l := range []string{"1", "2", "+", "3", "←", "4", "="} {
		c.press(l)
	}
	if c.result != "16" {
		t.Errorf("result = %q, want 16", c.result)
	}
	if len(c.history) != 1 || c.history[0] != "12+4 = 16" {
		t.Errorf("history = %v", c.history)
	}
	c.press("C")
	if c.expr.Value() != "" || c.result != "" {
		t.Errorf("clear left %q / %q", c.expr.Value(), c.result)
	}
	c.press("/")
	c.press("=")
	if c.err == "" {
		t.Error("expected an error for a bare operator")
	}
}
