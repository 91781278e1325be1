package extract

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "collapses whitespace runs",
			in:   "Factuur   \t 2024\nTotaal:\t€ 100,00",
			want: []string{"Factuur 2024", "Totaal: € 100,00"},
		},
		{
			name: "drops blank lines",
			in:   "\n\nVendor B.V.\n   \n\nTotaal\n",
			want: []string{"Vendor B.V.", "Totaal"},
		},
		{
			name: "windows line endings",
			in:   "eerste\r\ntweede\r\n",
			want: []string{"eerste", "tweede"},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
		{
			name: "whitespace only",
			in:   "  \n\t\n   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLines(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeLines(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeLinesIdempotent(t *testing.T) {
	in := "  Factuur \t 2024\n\nTotaal:\t€ 100,00\r\nBetaling   binnen 30 dagen"
	once := NormalizeLines(in)
	again := NormalizeLines(strings.Join(once, "\n"))
	if !reflect.DeepEqual(once, again) {
		t.Errorf("normalizing normalized text changed it: %v vs %v", once, again)
	}
}

func TestNormalizeLinesPreservesOrder(t *testing.T) {
	in := "a\nb\nc\nd"
	got := NormalizeLines(in)
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order not preserved: %v", got)
	}
}
