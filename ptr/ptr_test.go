package ptr

import "testing"

func TestToValue(t *testing.T) {
	if e, a := "v", ToValue(String("v")); e != a {
		t.Errorf("expected %v, got %v", e, a)
	}
	if e, a := int32(0), ToValue[int32](nil); e != a {
		t.Errorf("expected %v, got %v", e, a)
	}
	if e, a := 1.5, *To(1.5); e != a {
		t.Errorf("expected %v, got %v", e, a)
	}
}

func TestToDistinctPointers(t *testing.T) {
	v := 1
	p := To(v)
	*p = 2
	if e, a := 1, v; e != a {
		t.Errorf("expected %v, got %v", e, a)
	}
}
