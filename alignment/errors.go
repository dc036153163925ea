package alignment

import (
	"fmt"
)

// InvalidWeightsError reports a malformed attribute weight table at
// construction. No partial loss instance is created.
type InvalidWeightsError struct {
	Reason string
}

func (e *InvalidWeightsError) Error() string {
	return fmt.Sprintf("invalid attribute weights: %s", e.Reason)
}

// UnknownAttributeError reports a forward-call target whose attribute name
// was never registered at construction.
type UnknownAttributeError struct {
	Name string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("unknown attribute %q: no priority parameter registered", e.Name)
}

// DimensionMismatchError reports disagreeing feature dimensionalities
// between the feature batch and a target vector.
type DimensionMismatchError struct {
	Attribute string
	Want      int
	Got       int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch for attribute %q: features have %d, target has %d", e.Attribute, e.Want, e.Got)
}

// SemanticModelError wraps a failure inside the external embedding model.
// The core has no way to validate the model's health, so the cause is
// propagated unchanged with no retry.
type SemanticModelError struct {
	Op  string
	Err error
}

func (e *SemanticModelError) Error() string {
	return fmt.Sprintf("semantic model %s failed: %v", e.Op, e.Err)
}

func (e *SemanticModelError) Unwrap() error {
	return e.Err
}

// UnknownVariantError reports an unrecognized variant tag. Unknown tags fail
// fast rather than falling back to the baseline configuration.
type UnknownVariantError struct {
	Tag string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown variant %q", e.Tag)
}
