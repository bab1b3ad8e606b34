// Package features turns a track's metric history into dimensionless,
// comparable signals. Every extractor is a pure function of the history
// snapshot: no hidden state, fully deterministic, re-runnable.
package features

// Value is the result of a feature extraction. Missing data is a first-class
// "no signal" outcome, not an error, so sparse tracks score low instead of
// failing. The distinction between "measured zero" and "unmeasurable" is kept
// until the point of weighted aggregation.
type Value struct {
	value  float64
	signal bool
}

func Signal(v float64) Value {
	return Value{value: v, signal: true}
}

func NoSignal() Value {
	return Value{}
}

func (v Value) HasSignal() bool {
	return v.signal
}

// Float collapses the value for aggregation: a missing signal contributes 0.
func (v Value) Float() float64 {
	if !v.signal {
		return 0
	}
	return v.value
}
