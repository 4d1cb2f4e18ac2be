package distfield

import (
	"fmt"
	"math"
)

const (
	// DefaultSentinel seeds free cells. It stands in for an infinite squared
	// distance while keeping all envelope arithmetic finite.
	DefaultSentinel = 1e20

	// MaxDimension is the largest supported width or height. The largest real
	// squared distance on such a grid is 2·MaxDimension², roughly 2.2e12.
	MaxDimension = 1 << 20
)

// Options tunes a field computation. The zero value is ready to use.
type Options struct {
	// Sentinel is the squared-distance seed for free cells. Zero means
	// DefaultSentinel. It must be finite and exceed 4·(W²+H²) for the grid
	// being transformed so a sentinel-derived value can never be mistaken
	// for a measured one.
	Sentinel float64

	// Workers is the number of goroutines used per pass. Values below 2
	// run sequentially.
	Workers int
}

// DefaultOptions returns sequential options with DefaultSentinel.
func DefaultOptions() Options {
	return Options{Sentinel: DefaultSentinel, Workers: 1}
}

func (o Options) withDefaults() Options {
	if o.Sentinel == 0 {
		o.Sentinel = DefaultSentinel
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o
}

// Unreachable returns the distance reported for cells with no obstacle to
// measure against, sqrt(Sentinel). Any field value whose magnitude is at or
// above it means "no obstacle found", not a measurement.
func (o Options) Unreachable() float64 {
	return math.Sqrt(o.withDefaults().Sentinel)
}

// Validate checks the options independent of any grid.
func (o Options) Validate() error {
	o = o.withDefaults()
	if math.IsNaN(o.Sentinel) || math.IsInf(o.Sentinel, 0) {
		return &OptionsError{Field: "Sentinel", Reason: "must be finite"}
	}
	if o.Sentinel <= 0 {
		return &OptionsError{Field: "Sentinel", Reason: "must be positive"}
	}
	return nil
}

// resolve applies defaults and checks the sentinel against a width×height grid.
func (o Options) resolve(width, height int) (Options, error) {
	if err := o.Validate(); err != nil {
		return o, err
	}
	o = o.withDefaults()
	w, h := float64(width), float64(height)
	if floor := 4 * (w*w + h*h); o.Sentinel <= floor {
		return o, &OptionsError{
			Field:  "Sentinel",
			Reason: fmt.Sprintf("%g does not exceed %g for a %dx%d grid", o.Sentinel, floor, width, height),
		}
	}
	return o, nil
}
