package pep440

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{in: "1.0", want: Version{Release: []int{1, 0}, Post: -1, Dev: -1}},
		{in: "0.1", want: Version{Release: []int{0, 1}, Post: -1, Dev: -1}},
		{in: "2!1.0", want: Version{Epoch: 2, Release: []int{1, 0}, Post: -1, Dev: -1}},
		{in: "1.0a1", want: Version{Release: []int{1, 0}, PreKind: "a", PreNum: 1, Post: -1, Dev: -1}},
		{in: "1.0.beta2", want: Version{Release: []int{1, 0}, PreKind: "b", PreNum: 2, Post: -1, Dev: -1}},
		{in: "1.0rc1", want: Version{Release: []int{1, 0}, PreKind: "rc", PreNum: 1, Post: -1, Dev: -1}},
		{in: "1.0.post2", want: Version{Release: []int{1, 0}, Post: 2, Dev: -1}},
		{in: "1.0-3", want: Version{Release: []int{1, 0}, Post: 3, Dev: -1}},
		{in: "1.0.dev4", want: Version{Release: []int{1, 0}, Post: -1, Dev: 4}},
		{in: "1.0+local.1", want: Version{Release: []int{1, 0}, Post: -1, Dev: -1, Local: "local.1"}},
		{in: "v1.2.3", want: Version{Release: []int{1, 2, 3}, Post: -1, Dev: -1}},
		{in: "not-a-version", wantErr: true},
		{in: "", wantErr: true},
		{in: "1.0.x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %#v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			tt.want.original = tt.in
			if got.GoString() != tt.want.GoString() {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
			if got.String() != tt.in {
				t.Errorf("String() = %q, want original %q", got.String(), tt.in)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	// Each version must sort strictly before the next.
	ordered := []string{
		"0.9",
		"1.0.dev1",
		"1.0a1",
		"1.0a2",
		"1.0b1",
		"1.0rc1",
		"1.0",
		"1.0.post1",
		"1.1",
		"1!0.5",
	}
	for i := 1; i < len(ordered); i++ {
		a, b := MustParse(ordered[i-1]), MustParse(ordered[i])
		if a.Compare(b) >= 0 {
			t.Errorf("Compare(%s, %s) = %d, want < 0", a, b, a.Compare(b))
		}
		if b.Compare(a) <= 0 {
			t.Errorf("Compare(%s, %s) = %d, want > 0", b, a, b.Compare(a))
		}
	}
}

func TestCompare_PaddedRelease(t *testing.T) {
	if !MustParse("1.0").Equal(MustParse("1.0.0")) {
		t.Error("1.0 != 1.0.0, want equal")
	}
	if !MustParse("2.6").Equal(MustParse("2.6")) {
		t.Error("2.6 != 2.6, want equal")
	}
}

func TestCompareStrings(t *testing.T) {
	c, err := CompareStrings("2.7", "3")
	if err != nil {
		t.Fatalf("CompareStrings: %v", err)
	}
	if c >= 0 {
		t.Errorf("CompareStrings(2.7, 3) = %d, want < 0", c)
	}

	if _, err := CompareStrings("abc", "1.0"); err == nil {
		t.Error("CompareStrings(abc, 1.0) succeeded, want error")
	}
}
