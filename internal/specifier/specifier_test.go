package specifier

import (
	"testing"
)

func TestParse_canonicalOrder(t *testing.T) {
	set, err := Parse(" >=2.0 , <3.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := set.String(); got != "<3.0,>=2.0" {
		t.Errorf("String() = %q, want %q", got, "<3.0,>=2.0")
	}
}

func TestParse_invalid(t *testing.T) {
	for _, spec := range []string{"a valid dep!!!", ">=", "2.0", ">=1.0,,<2"} {
		if _, err := Parse(spec); err == nil {
			t.Errorf("Parse(%q) should fail", spec)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		spec string
		want Kind
	}{
		{"", Simple},
		{">=1.0", Simple},
		{">=1.0,>=1.2", Simple},
		{"==1.0", Complex},
		{">=1.0,<2.0", Complex},
		{"~=1.4", Complex},
		{"!=1.5", Complex},
		{"garbage", Complex},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			if got := Classify(tt.spec); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestMinimum(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{">=2.28.0", "2.28.0"},
		{">=1.0,>=1.5", "1.5"},
		{">=2.0,<3.0", "2.0"},
		{"==2.5.0", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got := Minimum(tt.spec)
			if tt.want == "" {
				if got != nil {
					t.Errorf("Minimum(%q) = %s, want nil", tt.spec, got)
				}
				return
			}
			if got == nil || got.Original() != tt.want {
				t.Errorf("Minimum(%q) = %v, want %s", tt.spec, got, tt.want)
			}
		})
	}
}

func TestHighestMinimum(t *testing.T) {
	tests := []struct {
		name   string
		specs  map[string]string
		want   string
		wantOK bool
	}{
		{"picks highest", map[string]string{"a": ">=2.28.0", "b": ">=2.31.0", "c": ">=2.25.0"}, ">=2.31.0", true},
		{"numeric not lexical", map[string]string{"a": ">=2.9", "b": ">=2.10"}, ">=2.10", true},
		{"exact pin", map[string]string{"a": ">=2.28.0", "b": "==2.31.0"}, "", false},
		{"complex range", map[string]string{"a": ">=2.0,<3.0", "b": ">=2.5"}, "", false},
		{"empty treated as any", map[string]string{"a": "", "b": ">=1.0"}, ">=1.0", true},
		{"all empty", map[string]string{"a": "", "b": ""}, "", false},
		{"no specifiers", map[string]string{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HighestMinimum(tt.specs)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("HighestMinimum() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMaxMinimum_ignoresClassification(t *testing.T) {
	got := MaxMinimum(map[string]string{"a": ">=2.0,<3.0", "b": "==9.0"})
	if got == nil || got.Original() != "2.0" {
		t.Errorf("MaxMinimum() = %v, want 2.0", got)
	}
}
