package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrNoFile is returned when a recognition pass is requested without an
// attached artifact. It is a local validation failure; no remote call is
// made.
var ErrNoFile = errors.New("no receipt file selected")

//go:generate mockgen -source=orchestrator.go -destination=recognizer_mock.go -package=receipt
type Recognizer interface {
	Recognize(ctx context.Context, req RecognizeRequest) (*RecognizeResult, error)
}

type RecognizeRequest struct {
	FilePath     string
	Model        string
	FullAnalysis bool
	AutoLink     bool
}

// Fields are the flat receipt fields produced by either recognition pass.
type Fields struct {
	VendorName  string
	Date        string
	TotalAmount int64 // cents; 0 means the backend reported no total
	Description string
}

type RecognizeResult struct {
	Fields    Fields
	LineItems []LineItem
}

// Orchestrator drives the two-phase recognition flow over a single uploaded
// artifact: a cheap basic extraction followed by the authoritative full
// line-item analysis. Results carry the file generation they were issued
// under; a response arriving after the file was removed or replaced is
// dropped silently instead of being applied to the draft.
type Orchestrator struct {
	mu         sync.Mutex
	recognizer Recognizer
	draft      *Draft
	model      string

	fileGen     int
	analyzedGen int // file generation whose full analysis has been applied
}

func NewOrchestrator(recognizer Recognizer, draft *Draft, model string) *Orchestrator {
	return &Orchestrator{
		recognizer:  recognizer,
		draft:       draft,
		model:       model,
		analyzedGen: -1,
	}
}

// Draft returns the draft owned by this orchestrator. The caller must not
// mutate it concurrently with an in-flight recognition pass.
func (o *Orchestrator) Draft() *Draft {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.draft
}

func (o *Orchestrator) SetModel(model string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.model = model
}

func (o *Orchestrator) Model() string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.model
}

// AttachFile points the orchestrator at a new uploaded artifact. Any
// recognition result still in flight for the previous file is dropped when
// it arrives.
func (o *Orchestrator) AttachFile(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.fileGen++
	o.draft.SourceFile = path
}

// ClearFile removes the current artifact and invalidates in-flight results.
func (o *Orchestrator) ClearFile() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.fileGen++
	o.draft.SourceFile = ""
}

// ExtractBasic runs the cheap field-extraction pass and fills the draft's
// vendor, date, total and description. Line items are untouched. The applied
// return reports whether the result actually reached the draft; a stale
// response, or one landing after a full analysis of the same file, is
// dropped.
func (o *Orchestrator) ExtractBasic(ctx context.Context) (applied bool, err error) {
	path, model, gen, err := o.snapshot()
	if err != nil {
		return false, err
	}

	result, err := o.recognizer.Recognize(ctx, RecognizeRequest{
		FilePath: path,
		Model:    model,
	})
	if err != nil {
		return false, fmt.Errorf("extracting receipt fields: %w", err)
	}

	return o.applyFields(gen, result.Fields, false), nil
}

// AnalyzeFull runs the authoritative pass: fields plus recognized line
// items. A full analysis is always allowed to overwrite fields set by the
// earlier basic extraction, never the reverse.
func (o *Orchestrator) AnalyzeFull(ctx context.Context, autoLink bool) (applied bool, err error) {
	path, model, gen, err := o.snapshot()
	if err != nil {
		return false, err
	}

	result, err := o.recognizer.Recognize(ctx, RecognizeRequest{
		FilePath:     path,
		Model:        model,
		FullAnalysis: true,
		AutoLink:     autoLink,
	})
	if err != nil {
		return false, fmt.Errorf("analyzing receipt: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.fileGen {
		return false, nil
	}

	o.setFields(result.Fields)
	o.analyzedGen = gen

	items := make([]LineItem, len(result.LineItems))
	for i, item := range result.LineItems {
		item.Index = i
		item.CreateObject = true
		item.Normalize()
		items[i] = item
	}

	o.draft.LineItems = items

	return true, nil
}

// ProcessAttached chains the two passes for the automatic on-select flow:
// extraction completes before analysis is issued, never concurrently. An
// extraction failure is logged but does not stop the authoritative pass.
func (o *Orchestrator) ProcessAttached(ctx context.Context, autoLink bool) (applied bool, err error) {
	if _, err := o.ExtractBasic(ctx); err != nil {
		if errors.Is(err, ErrNoFile) {
			return false, err
		}

		slog.Warn("basic extraction failed, continuing to full analysis", "error", err)
	}

	return o.AnalyzeFull(ctx, autoLink)
}

func (o *Orchestrator) snapshot() (path, model string, gen int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.draft.SourceFile == "" {
		return "", "", 0, ErrNoFile
	}

	return o.draft.SourceFile, o.model, o.fileGen, nil
}

func (o *Orchestrator) applyFields(gen int, fields Fields, fromAnalysis bool) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.fileGen {
		return false
	}

	// Analysis already landed for this file; the cheap pass must not
	// overwrite it.
	if !fromAnalysis && o.analyzedGen == gen {
		return false
	}

	o.setFields(fields)

	return true
}

func (o *Orchestrator) setFields(fields Fields) {
	o.draft.VendorName = fields.VendorName
	o.draft.Description = fields.Description

	if normalized, ok := NormalizeDate(fields.Date); ok {
		o.draft.Date = normalized
	}

	if fields.TotalAmount > 0 {
		o.draft.TotalAmount = fields.TotalAmount
	}
}
