// Package labels implements the label form actions: generating one label,
// generating a bulk batch, and reading the history. It owns no UI; the
// terminal form and the CLI subcommands both drive an App.
package labels

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"labelgen/internal/logging"
	"labelgen/internal/serial"
	"labelgen/internal/store"
)

// RecordStore is the subset of *store.Store the actions need.
type RecordStore interface {
	Insert(ctx context.Context, r store.Record) (store.Record, error)
	InsertBatch(ctx context.Context, records []store.Record) ([]int64, error)
	LastSerial(ctx context.Context) (string, error)
	FetchAll(ctx context.Context) ([]store.Record, error)
	Count(ctx context.Context) (int, error)
}

// DefaultCompany is the label header when none is configured.
const DefaultCompany = "Semper Five LLC."

// App is the application context handed to every action. It replaces
// process-wide connection state: callers open the store, build an App and
// close the store when the App is done.
type App struct {
	store    RecordStore
	company  string
	actionID func() string
}

// New returns an App backed by st. An empty company uses DefaultCompany.
func New(st RecordStore, company string) *App {
	if company == "" {
		company = DefaultCompany
	}
	return &App{
		store:    st,
		company:  company,
		actionID: uuid.NewString,
	}
}

// Company returns the label header line.
func (a *App) Company() string {
	return a.company
}

// Fields are the five required free-text label attributes.
type Fields struct {
	Wood     string `json:"wood"`
	Length   string `json:"length"`
	Weight   string `json:"weight"`
	Bracelet string `json:"bracelet"`
	Wrap     string `json:"wrap"`
}

// FieldNames lists the attribute names in form order.
var FieldNames = []string{"wood", "length", "weight", "bracelet", "wrap"}

// Normalize trims surrounding whitespace from every field.
func (f Fields) Normalize() Fields {
	return Fields{
		Wood:     strings.TrimSpace(f.Wood),
		Length:   strings.TrimSpace(f.Length),
		Weight:   strings.TrimSpace(f.Weight),
		Bracelet: strings.TrimSpace(f.Bracelet),
		Wrap:     strings.TrimSpace(f.Wrap),
	}
}

func (f Fields) values() []string {
	return []string{f.Wood, f.Length, f.Weight, f.Bracelet, f.Wrap}
}

// Missing returns the names of empty fields, in form order.
func (f Fields) Missing() []string {
	var missing []string
	for i, v := range f.Normalize().values() {
		if v == "" {
			missing = append(missing, FieldNames[i])
		}
	}
	return missing
}

// Validate fails with a *ValidationError if any field is empty.
func (f Fields) Validate() error {
	if missing := f.Missing(); len(missing) > 0 {
		return &ValidationError{Fields: missing, Reason: MsgMissingFields}
	}
	return nil
}

func (f Fields) record(serialNumber string) store.Record {
	return store.Record{
		SerialNumber: serialNumber,
		Wood:         f.Wood,
		Length:       f.Length,
		Weight:       f.Weight,
		Bracelet:     f.Bracelet,
		Wrap:         f.Wrap,
	}
}

// ParseQuantity reads the bulk quantity field. Anything but a positive
// integer is a *ValidationError.
func ParseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, &ValidationError{Reason: MsgInvalidQuantity}
	}
	return n, nil
}

// GenerateSingle validates f, allocates the next serial and stores one label.
func (a *App) GenerateSingle(ctx context.Context, f Fields) (store.Record, error) {
	log := logging.WithActionID(logging.CategoryForm, a.actionID())

	f = f.Normalize()
	if err := f.Validate(); err != nil {
		log.Warn("Single label rejected: %v", err)
		return store.Record{}, err
	}

	last, err := a.store.LastSerial(ctx)
	if err != nil {
		return store.Record{}, &StorageError{Op: "read last serial", Err: err}
	}
	next, err := serial.Next(last)
	if err != nil {
		return store.Record{}, &StorageError{Op: "allocate serial", Err: err}
	}
	logging.SerialDebug("Allocated %s after %q", next, last)

	rec, err := a.store.Insert(ctx, f.record(next))
	if err != nil {
		log.Error("Insert %s failed: %v", next, err)
		return store.Record{}, &StorageError{Op: "insert label", Err: err}
	}

	log.Info("Generated label %s (id %d)", rec.SerialNumber, rec.ID)
	return rec, nil
}

// GenerateBulk stores quantity labels sharing f, with consecutive serials.
// The starting serial is read once and the rest of the batch is numbered in
// memory; the rows are written in a single transaction.
func (a *App) GenerateBulk(ctx context.Context, f Fields, quantity int) ([]store.Record, error) {
	log := logging.WithActionID(logging.CategoryForm, a.actionID())

	if quantity <= 0 {
		log.Warn("Bulk rejected: quantity %d", quantity)
		return nil, &ValidationError{Reason: MsgInvalidQuantity}
	}
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		log.Warn("Bulk rejected: %v", err)
		return nil, err
	}

	last, err := a.store.LastSerial(ctx)
	if err != nil {
		return nil, &StorageError{Op: "read last serial", Err: err}
	}
	start, err := serial.Start(last)
	if err != nil {
		return nil, &StorageError{Op: "allocate serials", Err: err}
	}
	serials, err := serial.Sequence(last, quantity)
	if errors.Is(err, serial.ErrExhausted) {
		// The store still has room, just not for this many.
		left := serial.MaxNumber - start.Number + 1
		log.Warn("Bulk rejected: %d labels requested, %d serials left", quantity, left)
		return nil, &ValidationError{Reason: fmt.Sprintf(MsgQuantityTooLarge, left)}
	}
	if err != nil {
		return nil, &StorageError{Op: "allocate serials", Err: err}
	}
	logging.SerialDebug("Allocated %s..%s after %q", serials[0], serials[len(serials)-1], last)

	records := make([]store.Record, len(serials))
	for i, s := range serials {
		records[i] = f.record(s)
	}

	ids, err := a.store.InsertBatch(ctx, records)
	if err != nil {
		log.Error("Bulk insert of %d labels failed: %v", quantity, err)
		return nil, &StorageError{Op: "insert labels", Err: err}
	}
	for i := range records {
		records[i].ID = ids[i]
	}

	log.Info("Generated %d labels %s..%s", quantity, serials[0], serials[len(serials)-1])
	return records, nil
}

// History returns every stored label in insertion order.
func (a *App) History(ctx context.Context) ([]store.Record, error) {
	records, err := a.store.FetchAll(ctx)
	if err != nil {
		return nil, &StorageError{Op: "read history", Err: err}
	}
	logging.FormDebug("Loaded %d history rows", len(records))
	return records, nil
}

// Count returns the number of stored labels.
func (a *App) Count(ctx context.Context) (int, error) {
	n, err := a.store.Count(ctx)
	if err != nil {
		return 0, &StorageError{Op: "count labels", Err: err}
	}
	return n, nil
}

// Summary renders a generated label as plain text.
func (a *App) Summary(r store.Record) string {
	var sb strings.Builder
	sb.WriteString(a.company + "\n")
	fmt.Fprintf(&sb, "S/N: %s\n", r.SerialNumber)
	fmt.Fprintf(&sb, "Wood: %s\n", r.Wood)
	fmt.Fprintf(&sb, "Length: %s\n", r.Length)
	fmt.Fprintf(&sb, "Weight: %s\n", r.Weight)
	fmt.Fprintf(&sb, "Bracelet: %s\n", r.Bracelet)
	fmt.Fprintf(&sb, "Wrap: %s\n", r.Wrap)
	return sb.String()
}

// BulkMessage is the confirmation shown after a bulk run.
func BulkMessage(n int) string {
	return fmt.Sprintf("%d labels successfully generated!", n)
}

// HistoryHeaders are the history table columns.
var HistoryHeaders = []string{"ID", "Serial Number", "Wood", "Length", "Weight", "Bracelet", "Wrap", "Date Created"}

// TimeLayout formats created_at in history views.
const TimeLayout = "2006-01-02 15:04:05"

// HistoryRow flattens a record into HistoryHeaders order.
func HistoryRow(r store.Record) []string {
	created := ""
	if !r.CreatedAt.IsZero() {
		created = r.CreatedAt.Format(TimeLayout)
	}
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.SerialNumber,
		r.Wood,
		r.Length,
		r.Weight,
		r.Bracelet,
		r.Wrap,
		created,
	}
}
