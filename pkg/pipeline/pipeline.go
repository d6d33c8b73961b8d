// Package pipeline chains transforms into a reusable, reproducible
// augmentation pipeline.
//
// A Pipeline is built once from an ordered list of stages and is immutable
// afterwards. Each call to Apply runs every stage in order against one
// image: a Bernoulli draw on the stage's probability decides whether it
// runs, and any random decisions the transform makes come from the same
// State. Given the same seed, pipeline and input, the output is bit for bit
// the same. A failing stage aborts the run; no partial result is returned.
package pipeline

import(
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/bionictoucan/hypia/pkg/hsarray"
	"github.com/bionictoucan/hypia/pkg/hsrand"
	"github.com/bionictoucan/hypia/pkg/transform"
)

// A Stage is one transform plus the probability it is applied with.
type Stage struct {
	Transform transform.Transform
	P         float64 // in [0,1]
	Label     string  // optional; defaults to the transform's kind
}

// Always wraps t in a stage that always runs.
func Always(t transform.Transform) Stage { return Stage{Transform: t, P: 1} }

// NewStage wraps t in a stage that runs with probability p.
func NewStage(t transform.Transform, p float64) Stage { return Stage{Transform: t, P: p} }

// Name is the label if there is one, else the transform's kind.
func (s Stage)Name() string {
	if s.Label != "" {
		return s.Label
	}
	if s.Transform == nil {
		return "<nil>"
	}
	return s.Transform.Kind().String()
}

func (s Stage)validate() error {
	if s.Transform == nil {
		return fmt.Errorf("%w: no transform", hsarray.ErrParam)
	}
	if !(s.P >= 0 && s.P <= 1) {
		return fmt.Errorf("%w: probability %v outside [0,1]", hsarray.ErrParam, s.P)
	}
	return s.Transform.Validate()
}

func (s Stage)String() string {
	if s.P == 1 {
		return s.Name()
	}
	return fmt.Sprintf("%s(p=%g)", s.Name(), s.P)
}

// StageError reports which stage of a pipeline failed. errors.Is sees
// through it to the underlying error kind.
type StageError struct {
	Index int    // zero based position in the pipeline
	Name  string
	Err   error
}

func (e *StageError)Error() string {
	return fmt.Sprintf("stage %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *StageError)Unwrap() error { return e.Err }

// A Pipeline is an ordered, immutable list of stages. It holds no random
// state, so one Pipeline may serve any number of concurrent Apply calls as
// long as each has its own State.
type Pipeline struct {
	stages      []Stage
	log         zerolog.Logger
	concurrency int
}

type Option func(*Pipeline)

// WithLogger logs each stage at debug level; the default logs nothing.
func WithLogger(l zerolog.Logger) Option { return func(p *Pipeline) { p.log = l } }

// WithConcurrency bounds the number of images ApplyBatch works on at once.
// n <= 0 means one goroutine per image.
func WithConcurrency(n int) Option { return func(p *Pipeline) { p.concurrency = n } }

// New validates every stage and returns the pipeline. All the problems found
// are reported together, each as a StageError.
func New(stages []Stage, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		stages: append([]Stage(nil), stages...),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	var errs error
	for i, s := range p.stages {
		if err := s.validate(); err != nil {
			errs = multierr.Append(errs, &StageError{Index: i, Name: s.Name(), Err: err})
		}
	}
	if errs != nil {
		return nil, errs
	}
	return p, nil
}

func (p *Pipeline)Len() int          { return len(p.stages) }
func (p *Pipeline)Stages() []Stage   { return append([]Stage(nil), p.stages...) }

func (p *Pipeline)String() string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.String()
	}
	return fmt.Sprintf("Pipeline[%s]", strings.Join(names, " -> "))
}

// Apply runs the pipeline over img. Every stage consumes one Bernoulli draw
// from state, even with p=0 or p=1. img itself is never modified.
func (p *Pipeline)Apply(img *hsarray.Image, state *hsrand.State) (*hsarray.Image, error) {
	if state == nil {
		return nil, fmt.Errorf("apply: %w: nil random state", hsarray.ErrParam)
	}
	if err := hsarray.Validate(img); err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}

	cur := img
	for i, s := range p.stages {
		if !state.Bool(s.P) {
			p.log.Debug().Int("stage", i).Str("name", s.Name()).Bool("applied", false).Msg("skipped")
			continue
		}

		out, err := s.Transform.Apply(cur, state)
		if err != nil {
			p.log.Warn().Err(err).Int("stage", i).Str("name", s.Name()).Msg("stage failed")
			return nil, &StageError{Index: i, Name: s.Name(), Err: err}
		}
		cur = out

		p.log.Debug().Int("stage", i).Str("name", s.Name()).Bool("applied", true).
			Ints("shape", cur.Shape()).Msg("applied")
	}

	if cur == img {
		// No stage ran; still hand back a value the caller owns.
		cur = img.Clone()
	}
	return cur, nil
}

// ApplySeed runs the pipeline with a fresh State seeded with seed.
func (p *Pipeline)ApplySeed(img *hsarray.Image, seed uint64) (*hsarray.Image, error) {
	return p.Apply(img, hsrand.New(seed))
}

// FailedStage returns the index and name of the stage that err came from,
// if it came from a pipeline stage.
func FailedStage(err error) (int, string, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Index, se.Name, true
	}
	return -1, "", false
}
