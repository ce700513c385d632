// Package frame holds the in-memory tabular model consumed by the
// comparison and diff packages: typed columns with a null bitmap, and a
// possibly composite row key used to align rows across two frames.
package frame

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind tags the dynamic type of a column. It is decided once at column
// construction and never re-inspected per cell.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	}
	return "unknown"
}

// Numeric reports whether tolerance-based comparison applies to the kind.
func (k Kind) Numeric() bool {
	return k == KindFloat || k == KindInt
}

// Column is a named vector of a single kind. Exactly one of the value
// slices is populated, matching Kind; nulls marks missing positions.
type Column struct {
	Name string
	Kind Kind

	floats  []float64
	ints    []int64
	strings []string
	bools   []bool
	nulls   []bool
}

// FloatColumn builds a float column. NaN values are canonicalized to null
// so that the both-null-equal rule covers them.
func FloatColumn(name string, values []float64) *Column {
	c := &Column{
		Name:   name,
		Kind:   KindFloat,
		floats: append([]float64(nil), values...),
		nulls:  make([]bool, len(values)),
	}
	for i, v := range values {
		if math.IsNaN(v) {
			c.floats[i] = 0
			c.nulls[i] = true
		}
	}
	return c
}

// IntColumn builds an int column with no nulls.
func IntColumn(name string, values []int64) *Column {
	return &Column{
		Name:  name,
		Kind:  KindInt,
		ints:  append([]int64(nil), values...),
		nulls: make([]bool, len(values)),
	}
}

// StringColumn builds a string column with no nulls.
func StringColumn(name string, values []string) *Column {
	return &Column{
		Name:    name,
		Kind:    KindString,
		strings: append([]string(nil), values...),
		nulls:   make([]bool, len(values)),
	}
}

// BoolColumn builds a bool column with no nulls.
func BoolColumn(name string, values []bool) *Column {
	return &Column{
		Name:  name,
		Kind:  KindBool,
		bools: append([]bool(nil), values...),
		nulls: make([]bool, len(values)),
	}
}

// NewColumn builds a column from dynamically typed values, inferring the
// kind from the first non-null value. Supported element types are nil,
// float64, int, int64, string and bool. A mix of int and float widens to
// float; any other mix is an error.
func NewColumn(name string, values []any) (*Column, error) {
	kind := KindString
	seen := false
	for _, v := range values {
		if v == nil {
			continue
		}
		k, err := kindOf(v)
		if err != nil {
			return nil, errors.Wrapf(err, "column %s", name)
		}
		if !seen {
			kind = k
			seen = true
			continue
		}
		if k == kind {
			continue
		}
		if k.Numeric() && kind.Numeric() {
			kind = KindFloat
			continue
		}
		return nil, errors.Newf("column %s mixes %s and %s values", name, kind, k)
	}

	c := &Column{Name: name, Kind: kind, nulls: make([]bool, len(values))}
	switch kind {
	case KindFloat:
		c.floats = make([]float64, len(values))
	case KindInt:
		c.ints = make([]int64, len(values))
	case KindString:
		c.strings = make([]string, len(values))
	case KindBool:
		c.bools = make([]bool, len(values))
	}
	for i, v := range values {
		if v == nil {
			c.nulls[i] = true
			continue
		}
		switch kind {
		case KindFloat:
			f := asFloat(v)
			if math.IsNaN(f) {
				c.nulls[i] = true
				continue
			}
			c.floats[i] = f
		case KindInt:
			c.ints[i] = asInt(v)
		case KindString:
			c.strings[i] = v.(string)
		case KindBool:
			c.bools[i] = v.(bool)
		}
	}
	return c, nil
}

func kindOf(v any) (Kind, error) {
	switch v := v.(type) {
	case float64:
		return KindFloat, nil
	case int, int64:
		return KindInt, nil
	case string:
		return KindString, nil
	case bool:
		return KindBool, nil
	default:
		return 0, errors.Newf("unsupported value type %T", v)
	}
}

func asFloat(v any) float64 {
	switch v := v.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func asInt(v any) int64 {
	switch v := v.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	}
	return 0
}

func (c *Column) Len() int {
	return len(c.nulls)
}

func (c *Column) IsNull(i int) bool {
	return c.nulls[i]
}

// Float returns the numeric value at i widened to float64. Only valid for
// numeric kinds on non-null positions.
func (c *Column) Float(i int) float64 {
	if c.Kind == KindInt {
		return float64(c.ints[i])
	}
	return c.floats[i]
}

// Render returns the display form of the value at i, "null" for missing
// positions.
func (c *Column) Render(i int) string {
	if c.nulls[i] {
		return "null"
	}
	switch c.Kind {
	case KindFloat:
		return strconv.FormatFloat(c.floats[i], 'g', -1, 64)
	case KindInt:
		return strconv.FormatInt(c.ints[i], 10)
	case KindString:
		return c.strings[i]
	case KindBool:
		return strconv.FormatBool(c.bools[i])
	}
	return ""
}

// slice returns a new column containing the rows at the given positions.
func (c *Column) slice(rows []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind, nulls: make([]bool, len(rows))}
	switch c.Kind {
	case KindFloat:
		out.floats = make([]float64, len(rows))
	case KindInt:
		out.ints = make([]int64, len(rows))
	case KindString:
		out.strings = make([]string, len(rows))
	case KindBool:
		out.bools = make([]bool, len(rows))
	}
	for i, r := range rows {
		out.nulls[i] = c.nulls[r]
		switch c.Kind {
		case KindFloat:
			out.floats[i] = c.floats[r]
		case KindInt:
			out.ints[i] = c.ints[r]
		case KindString:
			out.strings[i] = c.strings[r]
		case KindBool:
			out.bools[i] = c.bools[r]
		}
	}
	return out
}

// Frame is an ordered sequence of uniquely named, equal-length columns.
type Frame struct {
	cols      []*Column
	byName    map[string]*Column
	keyFields []string
	numRows   int
}

// New builds a frame from the given columns. Column names must be unique
// and lengths must agree.
func New(cols ...*Column) (*Frame, error) {
	f := &Frame{byName: make(map[string]*Column, len(cols))}
	for i, c := range cols {
		if _, ok := f.byName[c.Name]; ok {
			return nil, errors.Newf("duplicate column name %q", c.Name)
		}
		if i == 0 {
			f.numRows = c.Len()
		} else if c.Len() != f.numRows {
			return nil, errors.Newf(
				"column %q has %d rows, expected %d", c.Name, c.Len(), f.numRows)
		}
		f.cols = append(f.cols, c)
		f.byName[c.Name] = c
	}
	return f, nil
}

// MustNew is New for statically known-good inputs, mostly tests.
func MustNew(cols ...*Column) *Frame {
	f, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return f
}

// SetKey declares the named columns as the (possibly composite) row key.
func (f *Frame) SetKey(fields ...string) error {
	for _, name := range fields {
		if _, ok := f.byName[name]; !ok {
			return errors.Newf("key field %q is not a column", name)
		}
	}
	f.keyFields = append([]string(nil), fields...)
	return nil
}

// KeyFields returns the named key fields, nil when the frame uses the
// implicit positional index.
func (f *Frame) KeyFields() []string {
	return f.keyFields
}

func (f *Frame) NumRows() int {
	return f.numRows
}

func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// ValueColumnNames returns the column names that are not key fields.
func (f *Frame) ValueColumnNames() []string {
	keys := make(map[string]struct{}, len(f.keyFields))
	for _, k := range f.keyFields {
		keys[k] = struct{}{}
	}
	var names []string
	for _, c := range f.cols {
		if _, ok := keys[c.Name]; !ok {
			names = append(names, c.Name)
		}
	}
	return names
}

func (f *Frame) Column(name string) (*Column, bool) {
	c, ok := f.byName[name]
	return c, ok
}

func (f *Frame) Columns() []*Column {
	return f.cols
}

// KeyAt returns the row key of row i. Frames without declared key fields
// use the row ordinal as an implicit single-field key.
func (f *Frame) KeyAt(i int) Key {
	if len(f.keyFields) == 0 {
		return Key{strconv.Itoa(i)}
	}
	k := make(Key, len(f.keyFields))
	for j, name := range f.keyFields {
		k[j] = f.byName[name].Render(i)
	}
	return k
}

// Keys returns the row-aligned key sequence.
func (f *Frame) Keys() []Key {
	keys := make([]Key, f.numRows)
	for i := range keys {
		keys[i] = f.KeyAt(i)
	}
	return keys
}

// DuplicateKeys returns the sorted set of keys that occur more than once.
func (f *Frame) DuplicateKeys() []Key {
	counts := make(map[string]int, f.numRows)
	first := make(map[string]Key)
	for i := 0; i < f.numRows; i++ {
		k := f.KeyAt(i)
		enc := k.Encode()
		counts[enc]++
		if counts[enc] == 1 {
			first[enc] = k
		}
	}
	var dups []Key
	for enc, n := range counts {
		if n > 1 {
			dups = append(dups, first[enc])
		}
	}
	SortKeys(dups)
	return dups
}

// Select returns a new frame restricted to the given columns, reindexed
// onto the given key sequence. Every requested key must identify exactly
// one row and every requested column must exist.
func (f *Frame) Select(keys []Key, cols []string) (*Frame, error) {
	rowByKey := make(map[string]int, f.numRows)
	for i := 0; i < f.numRows; i++ {
		enc := f.KeyAt(i).Encode()
		if _, ok := rowByKey[enc]; ok {
			delete(rowByKey, enc)
			rowByKey[enc] = -1
		} else {
			rowByKey[enc] = i
		}
	}
	rows := make([]int, len(keys))
	for i, k := range keys {
		r, ok := rowByKey[k.Encode()]
		if !ok {
			return nil, errors.Newf("key %s not present", k)
		}
		if r < 0 {
			return nil, errors.Newf("key %s is duplicated", k)
		}
		rows[i] = r
	}
	out := &Frame{byName: make(map[string]*Column, len(cols)), numRows: len(rows)}
	for _, name := range cols {
		c, ok := f.byName[name]
		if !ok {
			return nil, errors.Newf("column %q not present", name)
		}
		sliced := c.slice(rows)
		out.cols = append(out.cols, sliced)
		out.byName[name] = sliced
	}
	return out, nil
}

// Key is the rendered tuple of key-field values identifying a row.
type Key []string

// Encode returns a form usable as a map key. Separator and escape bytes
// occurring inside key-field values are escaped so distinct keys cannot
// collide.
func (k Key) Encode() string {
	var sb strings.Builder
	for i, v := range k {
		if i > 0 {
			sb.WriteByte(0)
		}
		for j := 0; j < len(v); j++ {
			switch v[j] {
			case '\\':
				sb.WriteString(`\\`)
			case 0:
				sb.WriteString(`\0`)
			default:
				sb.WriteByte(v[j])
			}
		}
	}
	return sb.String()
}

func (k Key) String() string {
	if len(k) == 1 {
		return k[0]
	}
	out := "("
	for i, v := range k {
		if i > 0 {
			out += ", "
		}
		out += v
	}
	return out + ")"
}

func (k Key) Compare(o Key) int {
	for i := 0; i < len(k) && i < len(o); i++ {
		// Numeric key components order numerically so that enumeration
		// and range compaction come out in natural order.
		if a, errA := strconv.ParseInt(k[i], 10, 64); errA == nil {
			if b, errB := strconv.ParseInt(o[i], 10, 64); errB == nil {
				switch {
				case a < b:
					return -1
				case a > b:
					return 1
				default:
					continue
				}
			}
		}
		if c := compareStrings(k[i], o[i]); c != 0 {
			return c
		}
	}
	return len(k) - len(o)
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SortKeys sorts keys in place in deterministic order.
func SortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Compare(keys[j]) < 0
	})
}
