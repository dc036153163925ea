package alignment

import (
	"github.com/Catch-an-orange/Attribute-Alignment-Loss/tensor"
)

// AttributeTarget is one named target vector for a forward call. The loss
// reads the vector during the call and never retains it.
type AttributeTarget struct {
	Name   string
	Vector *tensor.Tensor
}

// TargetsBundle carries everything one forward call aligns against: the
// ordered attribute targets and an optional free-text description. RawText
// is only consulted when a semantic penalty model is attached.
type TargetsBundle struct {
	Attributes []AttributeTarget
	RawText    string
}
