package reflector_test

import (
	"bytes"
	"io"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propbind/invoker"
	"propbind/reflector"
)

// gadget has a clean getter/setter pair per property, backed by a field for
// one of them.
type gadget struct {
	weight float64
	sku    string
}

func (g gadget) GetWeight() float64   { return g.weight }
func (g *gadget) SetWeight(v float64) { g.weight = v }
func (g gadget) GetSKU() string       { return g.sku }
func (g *gadget) SetSKU(v string)     { g.sku = v }

func TestSimpleAccessorPairs(t *testing.T) {
	r := reflector.New(reflect.TypeFor[gadget]())

	assert.Equal(t, []string{"SKU", "sku", "weight"}, r.ReadableProperties())
	assert.Equal(t, []string{"SKU", "sku", "weight"}, r.WritableProperties())

	spew.Dump(r.ReadableProperties())

	wt, err := r.GetterType("weight")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[float64](), wt)

	st, err := r.SetterType("weight")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[float64](), st)

	g := &gadget{}
	set, err := r.SetInvoker("weight")
	require.NoError(t, err)
	_, err = set.Invoke(g, 2.5)
	require.NoError(t, err)

	get, err := r.GetInvoker("weight")
	require.NoError(t, err)
	got, err := get.Invoke(g)
	require.NoError(t, err)
	assert.Equal(t, 2.5, got)
}

func TestAcronymPropertyName(t *testing.T) {
	r := reflector.New(reflect.TypeFor[gadget]())

	assert.True(t, r.HasGetter("SKU"))
	assert.True(t, r.HasSetter("SKU"))
	assert.False(t, r.HasGetter("sKU"))
}

// flag carries both boolean getter forms for the same property.
type flag struct{}

func (flag) IsActive() bool  { return true }
func (flag) GetActive() bool { return false }

func TestBooleanIsFormWins(t *testing.T) {
	r := reflector.New(reflect.TypeFor[flag]())

	get, err := r.GetInvoker("active")
	require.NoError(t, err)

	got, err := get.Invoke(flag{})
	require.NoError(t, err)
	assert.Equal(t, true, got)
}

// mixed exposes two getters with unrelated types for the same property.
type mixed struct{}

func (mixed) GetValue() string { return "s" }
func (mixed) IsValue() bool    { return false }

func TestUnrelatedGettersAreAmbiguous(t *testing.T) {
	r := reflector.New(reflect.TypeFor[mixed]())

	require.True(t, r.HasGetter("value"))

	get, err := r.GetInvoker("value")
	require.NoError(t, err)

	_, err = get.Invoke(mixed{})
	require.Error(t, err)
	assert.ErrorIs(t, err, invoker.ErrAmbiguous)
	assert.Contains(t, err.Error(), `"value"`)
	assert.Contains(t, err.Error(), "mixed")

	// The first-seen candidate type is kept only as a placeholder.
	gt, err := r.GetterType("value")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[string](), gt)
}

// bufferOwner narrows an embedded getter's interface result to a concrete
// type.
type readerBase struct{}

func (readerBase) GetStream() io.Reader { return nil }

type bufferOwner struct {
	readerBase
	buf *bytes.Buffer
}

func (b bufferOwner) GetStream() *bytes.Buffer { return b.buf }

func TestMoreSpecificGetterWins(t *testing.T) {
	r := reflector.New(reflect.TypeFor[bufferOwner]())

	gt, err := r.GetterType("stream")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[*bytes.Buffer](), gt)

	buf := bytes.NewBufferString("x")
	get, err := r.GetInvoker("stream")
	require.NoError(t, err)

	got, err := get.Invoke(&bufferOwner{buf: buf})
	require.NoError(t, err)
	assert.Same(t, buf, got)
}

// sink has two setter candidates for one property; only one matches the
// resolved getter type exactly.
type sinkBase struct {
	chosen string
}

func (sb *sinkBase) SetOutput(*bytes.Buffer) { sb.chosen = "buffer" }

type sink struct {
	sinkBase
	w io.Writer
}

func (s sink) GetOutput() io.Writer   { return s.w }
func (s *sink) SetOutput(w io.Writer) { s.w = w; s.chosen = "writer" }

func TestSetterMatchingGetterTypeIsAuthoritative(t *testing.T) {
	r := reflector.New(reflect.TypeFor[sink]())

	st, err := r.SetterType("output")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[io.Writer](), st)

	var s sink
	set, err := r.SetInvoker("output")
	require.NoError(t, err)

	// The exact-type setter wins even over the more specific candidate.
	_, err = set.Invoke(&s, bytes.NewBuffer(nil))
	require.NoError(t, err)
	assert.Equal(t, "writer", s.chosen)
}

// bufSink has related setter candidates and no getter; the more specific
// parameter type wins.
type writerBase struct{}

func (*writerBase) SetSink(io.Writer) {}

type bufSink struct {
	writerBase
}

func (*bufSink) SetSink(*bytes.Buffer) {}

func TestMoreSpecificSetterWins(t *testing.T) {
	r := reflector.New(reflect.TypeFor[bufSink]())

	st, err := r.SetterType("sink")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[*bytes.Buffer](), st)
}

// tagged has unrelated setter candidates and no getter.
type tagBase struct{}

func (*tagBase) SetLabel(int) {}

type tagged struct {
	tagBase
}

func (*tagged) SetLabel(string) {}

func TestUnrelatedSettersAreAmbiguous(t *testing.T) {
	r := reflector.New(reflect.TypeFor[tagged]())

	require.True(t, r.HasSetter("label"))

	set, err := r.SetInvoker("label")
	require.NoError(t, err)

	_, err = set.Invoke(&tagged{}, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, invoker.ErrAmbiguous)
	assert.Contains(t, err.Error(), `"label"`)
	assert.Contains(t, err.Error(), "string")
	assert.Contains(t, err.Error(), "int")
}

// entity exercises the field fallback, tags included.
type entity struct {
	ID     int64
	name   string
	Serial string `property:",readonly"`
	secret string `property:"-"`
	Alias  string `property:"nickname"`
}

func TestFieldFallback(t *testing.T) {
	r := reflector.New(reflect.TypeFor[entity]())

	assert.Equal(t, []string{"ID", "Serial", "name", "nickname"}, r.ReadableProperties())
	assert.Equal(t, []string{"ID", "name", "nickname"}, r.WritableProperties())

	assert.False(t, r.HasSetter("Serial"))
	assert.False(t, r.HasGetter("secret"))
	assert.False(t, r.HasSetter("secret"))
	assert.False(t, r.HasGetter("Alias"))

	_, err := r.SetInvoker("Serial")
	assert.ErrorIs(t, err, reflector.ErrNoSetter)

	e := &entity{}
	set, err := r.SetInvoker("name")
	require.NoError(t, err)
	_, err = set.Invoke(e, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", e.name)

	get, err := r.GetInvoker("name")
	require.NoError(t, err)
	got, err := get.Invoke(e)
	require.NoError(t, err)
	assert.Equal(t, "bob", got)
}

// hybrid is method-readable but only field-writable.
type hybrid struct {
	count int
}

func (h hybrid) GetCount() int { return h.count * 10 }

func TestMethodReadableFieldWritable(t *testing.T) {
	r := reflector.New(reflect.TypeFor[hybrid]())

	h := &hybrid{}
	set, err := r.SetInvoker("count")
	require.NoError(t, err)
	_, err = set.Invoke(h, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, h.count)

	get, err := r.GetInvoker("count")
	require.NoError(t, err)
	got, err := get.Invoke(h)
	require.NoError(t, err)
	assert.Equal(t, 40, got)
}

// point is a value record: accessor methods only, no writable properties.
type point struct {
	x, y int
}

func (point) RecordMarker() {}

func (p point) X() int { return p.x }
func (p point) Y() int { return p.y }

func TestValueRecord(t *testing.T) {
	r := reflector.New(reflect.TypeFor[point]())

	assert.Equal(t, []string{"X", "Y"}, r.ReadableProperties())
	assert.Empty(t, r.WritableProperties())

	get, err := r.GetInvoker("X")
	require.NoError(t, err)
	got, err := get.Invoke(point{x: 3, y: 4})
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestFindPropertyName(t *testing.T) {
	r := reflector.New(reflect.TypeFor[entity]())

	name, ok := r.FindPropertyName("NICKNAME")
	require.True(t, ok)
	assert.Equal(t, "nickname", name)

	name, ok = r.FindPropertyName("serial")
	require.True(t, ok)
	assert.Equal(t, "Serial", name)

	_, ok = r.FindPropertyName("missing")
	assert.False(t, ok)
}

func TestDefaultConstructor(t *testing.T) {
	r := reflector.New(reflect.TypeFor[gadget]())

	require.True(t, r.HasDefaultConstructor())
	inst, err := r.Instantiate()
	require.NoError(t, err)
	require.IsType(t, &gadget{}, inst)

	ri := reflector.New(reflect.TypeFor[io.Reader]())
	assert.False(t, ri.HasDefaultConstructor())

	_, err = ri.DefaultConstructor()
	assert.ErrorIs(t, err, reflector.ErrNoDefaultConstructor)

	_, err = ri.Instantiate()
	assert.ErrorIs(t, err, reflector.ErrNoDefaultConstructor)
}

func TestNotFoundErrors(t *testing.T) {
	r := reflector.New(reflect.TypeFor[gadget]())

	_, err := r.GetterType("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, reflector.ErrNoGetter)
	assert.Contains(t, err.Error(), `"missing"`)
	assert.Contains(t, err.Error(), "gadget")

	_, err = r.SetterType("missing")
	assert.ErrorIs(t, err, reflector.ErrNoSetter)

	_, err = r.GetInvoker("missing")
	assert.ErrorIs(t, err, reflector.ErrNoGetter)

	_, err = r.SetInvoker("missing")
	assert.ErrorIs(t, err, reflector.ErrNoSetter)
}

func TestType(t *testing.T) {
	typ := reflect.TypeFor[gadget]()
	r := reflector.New(typ)
	assert.Equal(t, typ, r.Type())
}
