package gojahost

import (
	stderrors "errors"
	"reflect"
	"testing"
	"time"

	"github.com/wippyai/jsinterop/buffer"
	"github.com/wippyai/jsinterop/errors"
	"github.com/wippyai/jsinterop/host"
)

func eval(t *testing.T, e *Engine, src string) host.Value {
	t.Helper()
	v, err := e.Eval("test.js", src)
	if err != nil {
		t.Fatalf("Eval(%q): %v", src, err)
	}
	return v
}

func TestEval_Primitives(t *testing.T) {
	e := New()
	tests := []struct {
		src  string
		want host.Value
	}{
		{"1 + 2", float64(3)},
		{"0.5", 0.5},
		{"'a' + 'b'", "ab"},
		{"true", true},
		{"null", nil},
		{"undefined", host.Undefined{}},
		{"[1, 'x', null]", []host.Value{float64(1), "x", nil}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := eval(t, e, tt.src)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestTypedArrays(t *testing.T) {
	e := New()
	views := []buffer.View{
		buffer.FromSlice([]int8{-1, 2}),
		buffer.FromSlice([]uint8{250, 3}),
		buffer.FromSlice([]int16{-300}),
		buffer.FromSlice([]uint16{65000}),
		buffer.FromSlice([]int32{-70000, 5}),
		buffer.FromSlice([]uint32{0xff0000ff}),
		buffer.FromSlice([]float32{1.5}),
		buffer.FromSlice([]float64{-2.25, 8}),
	}
	for _, v := range views {
		t.Run(v.Kind().String(), func(t *testing.T) {
			if err := e.SetGlobal("arr", v); err != nil {
				t.Fatal(err)
			}
			if ctor := eval(t, e, "arr.constructor.name"); ctor != v.Kind().Constructor() {
				t.Errorf("constructor = %v", ctor)
			}
			got := eval(t, e, "arr")
			gv, ok := got.(buffer.View)
			if !ok || !gv.Equal(v) {
				t.Errorf("round trip = %#v, want %v", got, v)
			}
		})
	}

	sum := eval(t, e, "(function(){ var a = new Int32Array([1,2,3]); return a[0]+a[1]+a[2]; })()")
	if sum != float64(6) {
		t.Errorf("sum = %v", sum)
	}

	sub := eval(t, e, "new Int16Array([1,2,3,4]).subarray(1, 3)")
	got, err := buffer.ToSlice[int16](sub.(buffer.View))
	if err != nil || !reflect.DeepEqual(got, []int16{2, 3}) {
		t.Errorf("subarray = %v, %v", got, err)
	}
}

func TestArrayBuffer(t *testing.T) {
	e := New()
	if err := e.SetGlobal("buf", host.ArrayBuffer{1, 0, 0, 0, 2, 0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	if n := eval(t, e, "buf.byteLength"); n != float64(8) {
		t.Errorf("byteLength = %v", n)
	}
	got := eval(t, e, "new Uint8Array(buf).buffer")
	if ab, ok := got.(host.ArrayBuffer); !ok || len(ab) != 8 {
		t.Errorf("got %#v", got)
	}
}

func TestDate(t *testing.T) {
	e := New()
	when := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	if err := e.SetGlobal("d", when); err != nil {
		t.Fatal(err)
	}
	if iso := eval(t, e, "d.toISOString()"); iso != "2024-03-01T12:30:00.000Z" {
		t.Errorf("toISOString = %v", iso)
	}
	got := eval(t, e, "new Date(Date.UTC(2020, 0, 2))")
	if tm, ok := got.(time.Time); !ok || !tm.Equal(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %#v", got)
	}
	if _, err := e.Eval("bad.js", "new Date(NaN)"); err == nil {
		t.Error("invalid date should fail")
	}
}

func TestObjects(t *testing.T) {
	e := New()
	obj, err := e.NewObject()
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Set(obj, "x", float64(7)); err != nil {
		t.Fatal(err)
	}
	v, ok, err := e.Get(obj, "x")
	if err != nil || !ok || v != float64(7) {
		t.Errorf("Get = %v, %v, %v", v, ok, err)
	}
	if _, ok, _ := e.Get(obj, "missing"); ok {
		t.Error("missing property reported present")
	}
	if has, _ := e.Has(obj, "toString"); !has {
		t.Error("inherited property not found")
	}

	if err := e.SetGlobal("o", obj); err != nil {
		t.Fatal(err)
	}
	if v := eval(t, e, "o.x * 2"); v != float64(14) {
		t.Errorf("o.x * 2 = %v", v)
	}

	math, err := e.Global("Math")
	if err != nil {
		t.Fatal(err)
	}
	mo, ok := math.(host.Object)
	if !ok || mo.IsFunction() {
		t.Fatalf("Math = %#v", math)
	}
	if g, _ := e.Global("noSuchGlobal"); g != (host.Undefined{}) {
		t.Errorf("missing global = %#v", g)
	}
}

func TestFunctions(t *testing.T) {
	e := New()
	fn, err := e.NewFunction([]string{"a", "b"}, "return a + b;")
	if err != nil {
		t.Fatal(err)
	}
	if !fn.IsFunction() {
		t.Fatal("NewFunction result not callable")
	}
	res, err := e.Call(fn, host.Undefined{}, []host.Value{float64(2), float64(3)})
	if err != nil || res != float64(5) {
		t.Errorf("Call = %v, %v", res, err)
	}

	obj, _ := e.NewObject()
	if _, err := e.Call(obj, nil, nil); err == nil {
		t.Error("calling a plain object should fail")
	}

	if _, err := e.NewFunction(nil, "return ("); err == nil {
		t.Error("syntax error should fail")
	}
}

func TestExceptions(t *testing.T) {
	e := New()
	_, err := e.Eval("throw.js", "throw new TypeError('boom')")
	var ex *host.Exception
	if !stderrors.As(err, &ex) {
		t.Fatalf("err = %T %v", err, err)
	}
	if ex.Name != "TypeError" || ex.Message != "boom" {
		t.Errorf("exception = %q / %q", ex.Name, ex.Message)
	}
	if ex.Error() != "TypeError: boom" {
		t.Errorf("Error() = %q", ex.Error())
	}

	_, err = e.Eval("throw.js", "throw 'plain'")
	if !stderrors.As(err, &ex) || ex.Message != "plain" {
		t.Errorf("string throw = %v", err)
	}
}

func TestCallback(t *testing.T) {
	e := New()
	cb, err := e.NewCallback(func(this host.Value, args []host.Value) (host.Value, error) {
		if len(args) != 1 {
			return nil, stderrors.New("want one argument")
		}
		return args[0].(float64) * 10, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SetGlobal("times10", cb); err != nil {
		t.Fatal(err)
	}
	if v := eval(t, e, "times10(4)"); v != float64(40) {
		t.Errorf("times10(4) = %v", v)
	}

	msg := eval(t, e, "(function(){ try { times10(); } catch (e) { return e.message; } })()")
	if msg != "want one argument" {
		t.Errorf("caught message = %v", msg)
	}
}

func TestOpaqueIdentity(t *testing.T) {
	e := New()
	if err := e.SetGlobal("a", host.Opaque{ID: 3}); err != nil {
		t.Fatal(err)
	}
	if err := e.SetGlobal("b", host.Opaque{ID: 3}); err != nil {
		t.Fatal(err)
	}
	if same := eval(t, e, "a === b"); same != true {
		t.Error("same id produced different proxies")
	}
	if v := eval(t, e, "a"); v != (host.Opaque{ID: 3}) {
		t.Errorf("round trip = %#v", v)
	}

	e.ForgetOpaque(3)
	if err := e.SetGlobal("c", host.Opaque{ID: 3}); err != nil {
		t.Fatal(err)
	}
	if same := eval(t, e, "a === c"); same != false {
		t.Error("forgotten proxy was reused")
	}
}

func TestClosed(t *testing.T) {
	e := New()
	obj, _ := e.NewObject()
	e.Close()
	if _, err := e.Eval("x.js", "1"); err != ErrClosed {
		t.Errorf("Eval err = %v", err)
	}
	if _, _, err := e.Get(obj, "x"); err != ErrClosed {
		t.Errorf("Get err = %v", err)
	}
}

func TestUnsupported(t *testing.T) {
	e := New()
	if err := e.SetGlobal("x", 42); err == nil {
		t.Error("raw Go int should be rejected")
	}
}

func TestArrays_CyclesAndDepth(t *testing.T) {
	e := New()
	tests := []struct {
		name string
		src  string
	}{
		{"self", "var a = []; a.push(a); a"},
		{"indirect", "var x = [], y = [x]; x.push(y); x"},
		{"deep", "var d = []; for (var i = 0; i < 2000; i++) { d = [d]; } d"},
		{"sparse", "var s = []; s.length = 4294967295; s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Eval("cycle.js", tt.src)
			if !errors.IsKind(err, errors.KindInvalidInput) {
				t.Errorf("err = %v, want invalid_input", err)
			}
		})
	}

	// The same array twice is shared, not cyclic.
	got := eval(t, e, "var s = [1]; [s, s]")
	want := []host.Value{[]host.Value{float64(1)}, []host.Value{float64(1)}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("shared = %#v", got)
	}
}

func TestConversion_ThrowingGetter(t *testing.T) {
	e := New()
	const setup = `var bad = [1];
		Object.defineProperty(bad, 0, { get: function () { throw new Error("boom"); } });
		var holder = { list: bad };
		function give() { return bad; }
		var trap = new Proxy([], { get: function (t, k) { if (k === "length") return 1; throw new RangeError("trapped"); } });`
	eval(t, e, setup)

	check := func(t *testing.T, err error, msg string) {
		t.Helper()
		var ex *host.Exception
		if !stderrors.As(err, &ex) || ex.Message != msg {
			t.Errorf("err = %T %v, want exception %q", err, err, msg)
		}
	}

	t.Run("eval", func(t *testing.T) {
		_, err := e.Eval("getter.js", "bad")
		check(t, err, "boom")
	})
	t.Run("global", func(t *testing.T) {
		_, err := e.Global("bad")
		check(t, err, "boom")
	})
	t.Run("get", func(t *testing.T) {
		holder := eval(t, e, "holder").(host.Object)
		_, _, err := e.Get(holder, "list")
		check(t, err, "boom")
	})
	t.Run("call", func(t *testing.T) {
		give := eval(t, e, "give").(host.Object)
		_, err := e.Call(give, nil, nil)
		check(t, err, "boom")
	})
	t.Run("proxy", func(t *testing.T) {
		_, err := e.Eval("proxy.js", "trap")
		check(t, err, "trapped")
	})
}

func TestDate_OutsideNanosecondRange(t *testing.T) {
	e := New()
	tests := []struct {
		when time.Time
		iso  string
	}{
		{time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC), "3000-01-01T00:00:00.000Z"},
		{time.Date(1500, 6, 15, 8, 0, 0, 0, time.UTC), "1500-06-15T08:00:00.000Z"},
	}
	for _, tt := range tests {
		t.Run(tt.iso, func(t *testing.T) {
			if err := e.SetGlobal("d", tt.when); err != nil {
				t.Fatal(err)
			}
			if iso := eval(t, e, "d.toISOString()"); iso != tt.iso {
				t.Errorf("toISOString = %v", iso)
			}
			got := eval(t, e, "d")
			if tm, ok := got.(time.Time); !ok || !tm.Equal(tt.when) {
				t.Errorf("round trip = %#v", got)
			}
		})
	}
}
