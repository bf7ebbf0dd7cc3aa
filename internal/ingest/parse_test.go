package ingest

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "90.000€", want: 90000},
		{in: "60.000 €", want: 60000},
		{in: "1.250.000 €", want: 1250000},
		{in: "250000", want: 250000},
		{in: "precio a consultar", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parsePrice(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parsePrice(%q): expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parsePrice(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePrice(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseArea(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want *int64
	}{
		{name: "plain", in: strPtr("70 m²"), want: int64Ptr(70)},
		{name: "decimal comma rounds", in: strPtr("70,5 m²"), want: int64Ptr(71)},
		{name: "leading space", in: strPtr(" 120 m²"), want: int64Ptr(120)},
		{name: "nil", in: nil, want: nil},
		{name: "no digits", in: strPtr("sin datos"), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseArea(tt.in)
			assertInt64Ptr(t, "parseArea", got, tt.want)
		})
	}
}

func TestParseBedrooms(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want *int64
	}{
		{name: "plain", in: strPtr("3 hab."), want: int64Ptr(3)},
		{name: "bare number", in: strPtr("2"), want: int64Ptr(2)},
		{name: "decimal truncates", in: strPtr("3,9 hab."), want: int64Ptr(3)},
		{name: "nil", in: nil, want: nil},
		{name: "no digits", in: strPtr("estudio"), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseBedrooms(tt.in)
			assertInt64Ptr(t, "parseBedrooms", got, tt.want)
		})
	}
}

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

func assertInt64Ptr(t *testing.T, name string, got, want *int64) {
	t.Helper()
	if want == nil {
		if got != nil {
			t.Errorf("%s = %d, want nil", name, *got)
		}
		return
	}
	if got == nil {
		t.Errorf("%s = nil, want %d", name, *want)
		return
	}
	if *got != *want {
		t.Errorf("%s = %d, want %d", name, *got, *want)
	}
}
