package web

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/community/backend/internal/interfaces/web/apiclient"
	"github.com/shopspring/decimal"
)

// dateLayout is the value format of <input type="date">
const dateLayout = "2006-01-02"

// Form field input types
const (
	fieldText     = "text"
	fieldTextarea = "textarea"
	fieldEmail    = "email"
	fieldURL      = "url"
	fieldDate     = "date"
	fieldNumber   = "number"
	fieldSelect   = "select"
)

// OptionSource loads the choices of a select field
type OptionSource func(ctx context.Context, sess apiclient.Session) ([]Option, error)

// FieldSpec describes one input of an entity form
type FieldSpec struct {
	Name     string
	Label    string
	Type     string
	Required bool
	// Options is required for select fields
	Options OptionSource
}

// formReader parses posted values and collects per-field problems
type formReader struct {
	values url.Values
	errs   map[string]string
}

func newFormReader(values url.Values) *formReader {
	return &formReader{values: values, errs: map[string]string{}}
}

func (f *formReader) fail(name, msg string) {
	if _, ok := f.errs[name]; !ok {
		f.errs[name] = msg
	}
}

// String returns the trimmed value; validation is left to the API
func (f *formReader) String(name string) string {
	return strings.TrimSpace(f.values.Get(name))
}

// Ref reads a selected record id. An empty selection reads as 0 so the API
// reports the field.
func (f *formReader) Ref(name string) int64 {
	raw := f.String(name)
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		f.fail(name, "is not a valid selection")
		return 0
	}
	return id
}

// Date reads a yyyy-mm-dd date; empty reads as the zero time
func (f *formReader) Date(name string) time.Time {
	raw := f.String(name)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		f.fail(name, "must be a date (yyyy-mm-dd)")
		return time.Time{}
	}
	return t
}

// OptionalDate reads a date that may be left blank
func (f *formReader) OptionalDate(name string) *time.Time {
	t := f.Date(name)
	if t.IsZero() {
		return nil
	}
	return &t
}

// Decimal reads an amount; empty reads as zero
func (f *formReader) Decimal(name string) decimal.Decimal {
	raw := f.String(name)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		f.fail(name, "must be a number")
		return decimal.Zero
	}
	return d
}

// Version reads the hidden concurrency token
func (f *formReader) Version() int {
	v, err := strconv.Atoi(f.String("version"))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// optionsFrom turns records into select options
func optionsFrom[T any](items []T, id func(*T) int64, label func(*T) string) []Option {
	out := make([]Option, 0, len(items))
	for i := range items {
		out = append(out, Option{Value: strconv.FormatInt(id(&items[i]), 10), Label: label(&items[i])})
	}
	return out
}

// rowsFrom turns records into table rows
func rowsFrom[T any](items []T, id func(*T) int64, cells func(*T) []string) []Row {
	out := make([]Row, 0, len(items))
	for i := range items {
		out = append(out, Row{ID: id(&items[i]), Cells: cells(&items[i])})
	}
	return out
}
