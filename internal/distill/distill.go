package distill

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/jsondistill/internal/jsontree"
)

// Output field names.
const (
	DescriptionField   = "description"
	DistilledDataField = "distilled_data"
)

// Options control a distillation run.
type Options struct {
	// StrictTyping distinguishes bool, str, int, float and null in shapes.
	// When false every scalar has the same shape.
	StrictTyping bool
	// RepeatThreshold is accepted for compatibility. Compression always
	// folds runs of two or more.
	RepeatThreshold int
	// PositionDependent shows a shape's example in every list where it
	// occurs. When false a shape is shown once, at its shallowest depth.
	PositionDependent bool
}

// DefaultOptions returns strict typing, a repeat threshold of 2 and the
// position-independent policy.
func DefaultOptions() Options {
	return Options{
		StrictTyping:      true,
		RepeatThreshold:   2,
		PositionDependent: false,
	}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.RepeatThreshold < 0 {
		return invalidInput("options", "repeat threshold must be non-negative, got %d", o.RepeatThreshold)
	}
	return nil
}

// Stats describes the work done by a run.
type Stats struct {
	Lists           int
	ScalarLists     int
	Representatives int
	FoldedItems     int
	Summaries       int
	UniqueShapes    int
	MemoHits        int
	CacheHits       int
	CacheMisses     int
	Duration        time.Duration
}

// Distill returns the distilled form of doc wrapped with a description:
//
//	{"description": "...", "distilled_data": ...}
//
// Distill is a pure function of its inputs. Each call uses fresh caches.
func Distill(doc jsontree.Value, opts Options) (jsontree.Value, error) {
	out, _, err := DistillWithStats(doc, opts)
	return out, err
}

// DistillWithStats is Distill that also reports run statistics.
func DistillWithStats(doc jsontree.Value, opts Options) (jsontree.Value, Stats, error) {
	if err := opts.Validate(); err != nil {
		return jsontree.Value{}, Stats{}, err
	}

	start := time.Now()
	e := newEngine(opts)
	data, err := e.run(doc)
	if err != nil {
		return jsontree.Value{}, Stats{}, err
	}
	e.stats.Duration = time.Since(start)

	out := jsontree.Object(
		jsontree.Field{Name: DescriptionField, Value: jsontree.String(Description(opts))},
		jsontree.Field{Name: DistilledDataField, Value: data},
	)
	return out, e.stats, nil
}

const descriptionFormat = `Distilled JSON structure. Shows the first encountered example for each unique deep structure within lists.
POSITION_DEPENDENT mode: %t
  - true: Examples shown independently at each nesting level (predictable, depth-aware).
  - false: Examples shown only at shallowest occurrence (more concise, globally unique).
Items between these examples are summarized by a 'summarized_pattern' object, indicating the sequence
of structure hashes (e.g., hashA hashB(x3) [hashC hashD](x2)) and the total item count.
First examples are labeled with '_structure_hash' only if their hash appears in a subsequent summary pattern.
Strict primitive typing for structure detection: %t. Repeat threshold for pattern summarization (internal, affects formatting): >=2.`

// Description returns the fixed explanatory text for the given options.
func Description(opts Options) string {
	return fmt.Sprintf(descriptionFormat, opts.PositionDependent, opts.StrictTyping)
}
