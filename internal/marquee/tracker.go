package marquee

// Measurer reports the rendered widths the engine depends on. Either value
// may be zero while the host has not laid anything out yet.
type Measurer interface {
	ContainerWidth() float64
	SequenceWidth() float64
}

// Measurable accepts dimensions; Engine and Animator both implement it.
type Measurable interface {
	Measure(containerWidth, sequenceWidth float64) bool
}

// MeasureFunc adapts two closures to Measurer.
type MeasureFunc struct {
	Container func() float64
	Sequence  func() float64
}

// ContainerWidth implements Measurer.
func (m MeasureFunc) ContainerWidth() float64 {
	if m.Container == nil {
		return 0
	}
	return m.Container()
}

// SequenceWidth implements Measurer.
func (m MeasureFunc) SequenceWidth() float64 {
	if m.Sequence == nil {
		return 0
	}
	return m.Sequence()
}

// Tracker re-measures on demand. Hosts call Refresh on mount and whenever
// the viewport resizes or the items, gap or height change.
type Tracker struct {
	src    Measurer
	target Measurable
}

// NewTracker binds a measurement source to a target.
func NewTracker(src Measurer, target Measurable) *Tracker {
	return &Tracker{src: src, target: target}
}

// Refresh measures once and reports whether the target accepted the values.
func (t *Tracker) Refresh() bool {
	if t == nil || t.src == nil || t.target == nil {
		return false
	}
	return t.target.Measure(t.src.ContainerWidth(), t.src.SequenceWidth())
}
