package unitcalc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/zephyrtronium/unitcalc"
)

func TestScope(t *testing.T) {
	ctx := context.Background()
	scope := unitcalc.NewScope()
	x, err := unitcalc.EvalString(ctx, "3", scope, unitcalc.Options{})
	if err != nil {
		t.Fatal(err)
	}
	scope.Set("x", x)
	v, err := unitcalc.EvalString(ctx, "x+1", scope, unitcalc.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := v.String(); got != "4" {
		t.Errorf("wrong result: want 4, got %q", got)
	}

	// A child sees the parent's bindings and can shadow them without
	// touching the parent.
	child := scope.Child()
	if v, ok := child.Get("x"); !ok || v.String() != "3" {
		t.Errorf("child misses parent binding: %v %v", v, ok)
	}
	y, err := unitcalc.EvalString(ctx, "x*2", child, unitcalc.Options{})
	if err != nil {
		t.Fatal(err)
	}
	child.Set("x", y)
	if v, _ := child.Get("x"); v.String() != "6" {
		t.Errorf("child shadow wrong: %v", v)
	}
	if v, _ := scope.Get("x"); v.String() != "3" {
		t.Errorf("parent binding changed: %v", v)
	}

	if _, ok := scope.Get("nosuch"); ok {
		t.Error("empty name resolved")
	}
}

func TestScopeBuiltinsShadowed(t *testing.T) {
	// Builtins resolve before the scope, so a binding with a builtin's name
	// is unreachable in default mode.
	ctx := context.Background()
	scope := unitcalc.NewScope()
	three, err := unitcalc.EvalString(ctx, "3", scope, unitcalc.Options{})
	if err != nil {
		t.Fatal(err)
	}
	scope.Set("pi", three)
	v, err := unitcalc.EvalString(ctx, "pi", scope, unitcalc.Options{})
	if err != nil {
		t.Fatal(err)
	}
	n, _ := v.Num()
	if f, _ := n.Float64(); f == 3 {
		t.Error("scope binding shadowed the builtin pi")
	}
	// In compat mode pi is not a builtin, so the scope wins.
	v, err = unitcalc.EvalString(ctx, "pi", scope, unitcalc.Options{Compat: true})
	if err != nil {
		t.Fatal(err)
	}
	n, _ = v.Num()
	if f, _ := n.Float64(); f != 3 {
		t.Errorf("compat mode missed the scope binding: %g", f)
	}
}

func TestDefaultScopeUnits(t *testing.T) {
	scope := unitcalc.DefaultScope(0)
	for _, name := range []string{"m", "km", "kg", "s", "B", "KiB"} {
		v, ok := scope.Get(name)
		if !ok {
			t.Errorf("unit %s missing", name)
			continue
		}
		n, ok := v.Num()
		if !ok {
			t.Errorf("unit %s is not a number: %v", name, v)
			continue
		}
		if _, ok := n.Float64(); ok {
			t.Errorf("unit %s is dimensionless", name)
		}
	}

	if _, err := unitcalc.EvalString(context.Background(), "m", unitcalc.NewScope(), unitcalc.Options{}); err == nil {
		t.Error("unit resolved in an empty scope")
	} else {
		var e *unitcalc.NameError
		if !errors.As(err, &e) {
			t.Errorf("wrong error for missing unit: %v", err)
		}
	}
}
