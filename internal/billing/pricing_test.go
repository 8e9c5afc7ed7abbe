package billing_test

import (
	"testing"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/billing"
)

func TestFinalAmount(t *testing.T) {
	tests := []struct {
		name       string
		baseAmount int64
		discounted bool
		want       int64
	}{
		{name: "no discount returns base", baseAmount: 2500, discounted: false, want: 2500},
		{name: "discount subtracted", baseAmount: 2500, discounted: true, want: 2000},
		{name: "discount floored at minimum", baseAmount: 900, discounted: true, want: 500},
		{name: "base below floor still charges minimum", baseAmount: 300, discounted: true, want: 500},
		{name: "exactly at boundary", baseAmount: 1000, discounted: true, want: 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := billing.FinalAmount(tt.baseAmount, tt.discounted)
			if got != tt.want {
				t.Errorf("FinalAmount(%d, %v) = %d, want %d", tt.baseAmount, tt.discounted, got, tt.want)
			}
		})
	}
}
