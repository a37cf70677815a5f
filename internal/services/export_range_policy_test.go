package services

import (
	"errors"
	"testing"
)

func TestParseDayRange(t *testing.T) {
	from, to, err := ParseDayRange(" 2026-01-01 ", "2026-01-31")
	if err != nil {
		t.Fatalf("ParseDayRange returned error: %v", err)
	}
	if DateKey(*from) != "2026-01-01" || DateKey(*to) != "2026-01-31" {
		t.Fatalf("unexpected range %s..%s", DateKey(*from), DateKey(*to))
	}

	from, to, err = ParseDayRange("", "")
	if err != nil || from != nil || to != nil {
		t.Fatalf("expected open range, got %v %v %v", from, to, err)
	}

	tests := []struct {
		name string
		from string
		to   string
		want error
	}{
		{name: "bad from", from: "01/02/2026", want: ErrRangeFromDateInvalid},
		{name: "bad to", to: "2026-02-30", want: ErrRangeToDateInvalid},
		{name: "reversed", from: "2026-02-02", to: "2026-02-01", want: ErrRangeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseDayRange(tt.from, tt.to); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
