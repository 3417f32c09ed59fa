package enum_test

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/wippyai/jsinterop/enum"
	"github.com/wippyai/jsinterop/errors"
)

type lazyEnum int

type brokenEnum int

type neverRegistered int

var lazyBuilds atomic.Int32

func init() {
	enum.MustRegister("RequestCache", requestCacheMembers)
	enum.MustRegister("StyleColor", styleColorMembers)
	enum.MustRegister("Lazy", func() []enum.Member[lazyEnum] {
		lazyBuilds.Add(1)
		return []enum.Member[lazyEnum]{{Name: "One", Value: 1}}
	})
	enum.MustRegister("Broken", func() []enum.Member[brokenEnum] {
		return []enum.Member[brokenEnum]{{Name: "A", Value: 1}, {Name: "B", Value: 1}}
	})
}

func TestFor_BuildsOnce(t *testing.T) {
	var wg sync.WaitGroup
	descs := make([]*enum.Descriptor[lazyEnum], 16)
	for i := range descs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := enum.For[lazyEnum]()
			if err != nil {
				t.Errorf("For: %v", err)
				return
			}
			descs[i] = d
		}(i)
	}
	wg.Wait()

	if n := lazyBuilds.Load(); n != 1 {
		t.Errorf("declaration evaluated %d times, want 1", n)
	}
	for i := 1; i < len(descs); i++ {
		if descs[i] != descs[0] {
			t.Fatal("For returned different descriptors")
		}
	}
}

func TestFor_Registered(t *testing.T) {
	d, err := enum.For[RequestCache]()
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	got, err := d.FromValue("no-store")
	if err != nil || got != NoStore {
		t.Errorf("FromValue = %d, %v", got, err)
	}
}

func TestFor_NotRegistered(t *testing.T) {
	_, err := enum.For[neverRegistered]()
	if !errors.IsKind(err, errors.KindNotFound) {
		t.Errorf("err = %v, want not_found", err)
	}
	if enum.Registered(reflect.TypeFor[neverRegistered]()) {
		t.Error("Registered should be false")
	}
}

func TestFor_BuildErrorCached(t *testing.T) {
	_, err1 := enum.For[brokenEnum]()
	_, err2 := enum.For[brokenEnum]()
	if err1 == nil || err2 == nil {
		t.Fatal("expected build error")
	}
	if err1 != err2 {
		t.Error("build error should be cached")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	err := enum.Register("RequestCacheAgain", requestCacheMembers)
	if !errors.IsKind(err, errors.KindRegistration) {
		t.Errorf("err = %v, want registration", err)
	}
	if err := enum.Register[lazyEnum]("Nil", nil); err == nil {
		t.Error("nil declaration should fail")
	}
}

func TestLookup_Codec(t *testing.T) {
	c, ok, err := enum.Lookup(reflect.TypeFor[StyleColor]())
	if !ok || err != nil {
		t.Fatalf("Lookup: ok=%v err=%v", ok, err)
	}
	if c.TypeName() != "StyleColor" {
		t.Errorf("TypeName = %s", c.TypeName())
	}

	rep, err := c.Encode(reflect.ValueOf(RedHex))
	if err != nil {
		t.Fatal(err)
	}
	if rep != enum.StringRep("#ff0000") {
		t.Errorf("Encode = %v", rep)
	}

	v, err := c.DecodeValue(float64(RedLowerCase))
	if err != nil {
		t.Fatal(err)
	}
	if v.Interface().(StyleColor) != RedLowerCase {
		t.Errorf("DecodeValue = %v", v)
	}

	if _, err := c.Encode(reflect.ValueOf(7)); !errors.IsKind(err, errors.KindTypeMismatch) {
		t.Errorf("wrong Go type err = %v", err)
	}

	if _, ok, _ := enum.Lookup(reflect.TypeFor[neverRegistered]()); ok {
		t.Error("unregistered type should not be found")
	}
}
