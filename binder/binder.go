// Package binder maps SQL result rows onto objects using the cached
// property metadata from the reflector package.
package binder

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"propbind/internal/maputil"
	"propbind/invoker"
	"propbind/reflector"
)

var (
	ErrBadDestination  = errors.New("destination must be a pointer to a slice or struct")
	ErrUnmappedColumn  = errors.New("column has no writable property")
	ErrNotInstantiable = errors.New("element type cannot be instantiated")
)

// Binder binds rows to objects: one instance per row, one setter invocation
// per matched column. Column names resolve to properties case-insensitively,
// optionally after underscore removal, with explicit mapping pins taking
// priority.
type Binder struct {
	factory           *reflector.Factory
	mapping           *Mapping
	underscoreToCamel bool
	strict            bool
	logger            *slog.Logger
}

// Option configures a Binder.
type Option func(*Binder)

// WithFactory replaces the reflector factory, defaulting to the process-wide
// one.
func WithFactory(f *reflector.Factory) Option {
	return func(b *Binder) { b.factory = f }
}

// WithMapping pins explicit column-to-property bindings.
func WithMapping(m *Mapping) Option {
	return func(b *Binder) { b.mapping = m }
}

// WithUnderscoreToCamel makes snake_case columns match CamelCase properties.
func WithUnderscoreToCamel() Option {
	return func(b *Binder) { b.underscoreToCamel = true }
}

// WithStrictColumns fails the bind when a column matches no writable
// property instead of skipping it.
func WithStrictColumns() Option {
	return func(b *Binder) { b.strict = true }
}

// WithLogger replaces the logger, defaulting to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) { b.logger = logger }
}

// New creates a Binder.
func New(opts ...Option) *Binder {
	b := &Binder{
		factory: reflector.Default(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// BindAll scans every remaining row of rows into new instances appended to
// dest, which must be a pointer to a slice of T or of *T.
func (b *Binder) BindAll(rows *sql.Rows, dest any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() || dv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("%w: got %T", ErrBadDestination, dest)
	}

	sliceVal := dv.Elem()
	elem := sliceVal.Type().Elem()

	base := elem
	ptrElem := false
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
		ptrElem = true
	}

	r := b.factory.ForType(base)
	if !r.HasDefaultConstructor() {
		return fmt.Errorf("%w: %s", ErrNotInstantiable, base)
	}

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to read result columns: %w", err)
	}

	plan, err := b.plan(r, base, cols)
	if err != nil {
		return err
	}

	for rows.Next() {
		inst, err := r.Instantiate()
		if err != nil {
			return err
		}

		if err := b.scanInto(rows, plan, len(cols), inst); err != nil {
			return err
		}

		iv := reflect.ValueOf(inst)
		if ptrElem {
			sliceVal = reflect.Append(sliceVal, iv)
		} else {
			sliceVal = reflect.Append(sliceVal, iv.Elem())
		}
	}

	dv.Elem().Set(sliceVal)

	return rows.Err()
}

// Bind scans the current row of rows into dest, a pointer to struct. The
// caller positions the cursor with rows.Next.
func (b *Binder) Bind(rows *sql.Rows, dest any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() || dv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %T", ErrBadDestination, dest)
	}

	r := b.factory.ForType(dv.Type().Elem())

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to read result columns: %w", err)
	}

	plan, err := b.plan(r, dv.Type().Elem(), cols)
	if err != nil {
		return err
	}

	return b.scanInto(rows, plan, len(cols), dest)
}

func (b *Binder) scanInto(rows *sql.Rows, plan []maputil.Entry[int, invoker.Invoker], ncols int, inst any) error {
	holders := make([]any, ncols)
	for i := range holders {
		holders[i] = new(any)
	}

	if err := rows.Scan(holders...); err != nil {
		return fmt.Errorf("failed to scan row: %w", err)
	}

	for _, e := range plan {
		val := *(holders[e.Key()].(*any))
		if val == nil {
			continue
		}

		if _, err := e.Value().Invoke(inst, val); err != nil {
			return fmt.Errorf("failed to bind column %d: %w", e.Key(), err)
		}
	}

	return nil
}

// plan resolves each column to its setter invoker once per result set.
func (b *Binder) plan(r *reflector.Reflector, t reflect.Type, cols []string) ([]maputil.Entry[int, invoker.Invoker], error) {
	var out []maputil.Entry[int, invoker.Invoker]

	for i, col := range cols {
		name, ok := b.resolve(r, t, col)
		if !ok {
			if b.strict {
				return nil, fmt.Errorf("%w: column %q in %s", ErrUnmappedColumn, col, t)
			}

			b.logger.Debug("skipping unmatched column",
				slog.String("column", col),
				slog.String("type", t.String()))
			continue
		}

		inv, err := r.SetInvoker(name)
		if err != nil {
			return nil, err
		}

		out = append(out, maputil.NewEntry(i, inv))
	}

	return out, nil
}

func (b *Binder) resolve(r *reflector.Reflector, t reflect.Type, col string) (string, bool) {
	if b.mapping != nil {
		if prop, ok := b.mapping.Lookup(t.Name(), col); ok {
			return prop, r.HasSetter(prop)
		}
	}

	lookup := col
	if b.underscoreToCamel {
		lookup = strings.ReplaceAll(col, "_", "")
	}

	name, ok := r.FindPropertyName(lookup)
	if !ok || !r.HasSetter(name) {
		return "", false
	}

	return name, true
}
