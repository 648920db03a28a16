package adahuff

// Reporter receives progress ticks during Encode (one OnSymbol call
// per input byte consumed) and Decode (one OnBit call per bit consumed
// from the stream). Nothing in the codec depends on a Reporter being
// present; it exists purely so a caller can drive a progress bar or a
// metrics counter.
type Reporter interface {
	OnSymbol()
	OnBit()
}

// NopReporter implements Reporter by doing nothing. It is the default
// used by DefaultOptions and by New when Options.Reporter is nil.
type NopReporter struct{}

func (NopReporter) OnSymbol() {}
func (NopReporter) OnBit()    {}
