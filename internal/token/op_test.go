package token

import "testing"

func TestParseOp(t *testing.T) {
	for op := OpNone + 1; op < opCount; op++ {
		byName, err := ParseOp(op.String())
		if err != nil || byName != op {
			t.Fatalf("ParseOp(%q) = %v, %v", op.String(), byName, err)
		}
		bySym, err := ParseOp(op.Symbol())
		if err != nil || bySym != op {
			t.Fatalf("ParseOp(%q) = %v, %v", op.Symbol(), bySym, err)
		}
	}
	if _, err := ParseOp("??"); err == nil {
		t.Fatal("expected error for unknown operator")
	}
}

func TestOpClasses(t *testing.T) {
	if !OpAddAssign.IsAssign() || OpAdd.IsAssign() {
		t.Fatal("IsAssign misclassifies")
	}
	if !OpHash.IsBindingPrefix() || OpDot.IsBindingPrefix() {
		t.Fatal("IsBindingPrefix misclassifies")
	}
	if OpNone.Valid() || !OpTilde.Valid() {
		t.Fatal("Valid misclassifies")
	}
}
