package domain

import "testing"

func TestDollarsToCents(t *testing.T) {
	tests := []struct {
		name    string
		in      float64
		want    int64
		wantErr bool
	}{
		{"whole dollars", 100, 10000, false},
		{"two decimals", 99.95, 9995, false},
		{"one decimal", 1.1, 110, false},
		{"zero", 0, 0, false},
		{"negative", -12.34, -1234, false},
		{"float artifact", 1.10, 110, false},
		{"three decimals", 1.005, 0, true},
		{"sub-cent", 0.001, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DollarsToCents(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %v, got %d", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DollarsToCents(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestCentsToDollars(t *testing.T) {
	if got := CentsToDollars(9995); got != 99.95 {
		t.Errorf("CentsToDollars(9995) = %v, want 99.95", got)
	}
	if got := CentsToDollars(-50); got != -0.5 {
		t.Errorf("CentsToDollars(-50) = %v, want -0.5", got)
	}
}

func TestRoundToCents(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{184.12345, 18412},
		{184.125, 18413},
		{0.004, 0},
		{0.005, 1},
		{-184.125, -18413},
	}

	for _, tt := range tests {
		if got := RoundToCents(tt.in); got != tt.want {
			t.Errorf("RoundToCents(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
