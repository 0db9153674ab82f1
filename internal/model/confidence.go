package model

// Confidence is the provenance quality tag attached to an extracted value.
type Confidence string

const (
	ConfidenceHigh    Confidence = "HIGH"
	ConfidenceMedium  Confidence = "MEDIUM"
	ConfidenceLow     Confidence = "LOW"
	ConfidenceMissing Confidence = "MISSING"
)

// IsLow reports whether the tag should be highlighted as uncertain.
// An empty tag is not considered low.
func (c Confidence) IsLow() bool {
	return c == ConfidenceLow || c == ConfidenceMissing
}

// Field wraps a single scalar input with its extraction metadata.
// A nil Value means the value is unknown, whatever Confidence says.
type Field[T any] struct {
	Value      *T         `json:"value"`
	Confidence Confidence `json:"confidence"`
	Source     string     `json:"source,omitempty"`
	Evidence   string     `json:"evidence,omitempty"`
}

// Known returns a field holding v with the given confidence.
func Known[T any](v T, c Confidence) Field[T] {
	return Field[T]{Value: &v, Confidence: c}
}

// Unknown returns a field with no value and MISSING confidence.
func Unknown[T any]() Field[T] {
	return Field[T]{Confidence: ConfidenceMissing}
}

// Has reports whether the field carries a value.
func (f Field[T]) Has() bool {
	return f.Value != nil
}

// Get returns the value and whether it was present.
func (f Field[T]) Get() (T, bool) {
	if f.Value == nil {
		var zero T
		return zero, false
	}
	return *f.Value, true
}

// WithValue returns a copy of f whose value is replaced by v. The confidence,
// source and evidence are kept as they were even though they no longer
// describe the new value. A nil v clears the value.
func (f Field[T]) WithValue(v *T) Field[T] {
	out := f
	if v == nil {
		out.Value = nil
		return out
	}
	cp := *v
	out.Value = &cp
	return out
}
