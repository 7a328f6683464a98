package req

import (
	"reflect"
	"testing"
)

func TestRequirementsOrder(t *testing.T) {
	reqs := NewRequirements()
	for _, name := range []string{"pip", "setuptools", "wheel"} {
		reqs.Set(name, mustLine(t, name))
	}

	if got, want := reqs.Keys(), []string{"pip", "setuptools", "wheel"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	// Overwriting keeps the original position.
	reqs.Set("setuptools", mustLine(t, "setuptools==80.0"))
	if got, want := reqs.Keys(), []string{"pip", "setuptools", "wheel"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() after overwrite = %v, want %v", got, want)
	}
	if reqs.Len() != 3 {
		t.Errorf("Len() = %d, want 3", reqs.Len())
	}

	r, ok := reqs.Get("setuptools")
	if !ok || r.Specifier.String() != "==80.0" {
		t.Errorf("Get(setuptools) = %v, %v; want the overwritten entry", r, ok)
	}
}

func TestRequirementsHas(t *testing.T) {
	reqs := NewRequirements()
	reqs.Set("pip", mustLine(t, "pip"))
	if !reqs.Has("pip") {
		t.Error("Has(pip) = false")
	}
	if reqs.Has("setuptools") {
		t.Error("Has(setuptools) = true")
	}
}

func TestRequirementsString(t *testing.T) {
	reqs := NewRequirements()
	reqs.Set("pip", mustLine(t, "pip"))
	reqs.Set("setuptools", mustLine(t, "setuptools"))
	want := "Requirements({pip: pip, setuptools: setuptools})"
	if got := reqs.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRequirementsValues(t *testing.T) {
	reqs := NewRequirements()
	reqs.Set("b", mustLine(t, "b==1"))
	reqs.Set("a", mustLine(t, "a==2"))
	values := reqs.Values()
	if len(values) != 2 || values[0].Name != "b" || values[1].Name != "a" {
		t.Errorf("Values() = %v, want insertion order b then a", values)
	}
}
