package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoundFinalHalfUp(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"10.005": "10.01",
		"10.004": "10.00",
		"10.015": "10.02",
		"45":     "45",
	}
	for in, want := range cases {
		d, err := decimal.NewFromString(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got := RoundFinal(d); !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("RoundFinal(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestPercentOff(t *testing.T) {
	t.Parallel()

	got := PercentOff(decimal.NewFromInt(50), decimal.NewFromInt(10))
	if !got.Equal(decimal.NewFromInt(45)) {
		t.Fatalf("10%% off 50 = %s, want 45", got)
	}
}

func TestClampNonNegative(t *testing.T) {
	t.Parallel()

	if !ClampNonNegative(decimal.NewFromInt(-3)).IsZero() {
		t.Fatal("negative amount should clamp to zero")
	}
	five := decimal.NewFromInt(5)
	if !ClampNonNegative(five).Equal(five) {
		t.Fatal("positive amount should pass through")
	}
}
