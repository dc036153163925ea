package alignment

// Named experiment variants. Each one reads the live configuration and
// re-enters construction, so the result is a fully independent sibling
// instance with fresh priority parameters.
const (
	// VariantBaseline reproduces the current configuration verbatim.
	VariantBaseline = "baseline"
	// VariantNoSemanticPenalty drops the semantic model reference.
	VariantNoSemanticPenalty = "no_semantic_penalty"
	// VariantUniformPriority replaces every attribute weight with 1/N,
	// discarding any learned priority skew.
	VariantUniformPriority = "uniform_priority"
	// VariantFull reconstructs with the semantic model explicitly retained.
	VariantFull = "full"
)

// Variant materializes a named A/B configuration of this loss as a new
// instance. The source is never mutated and shares no trainable state with
// the result. Unrecognized tags fail with *UnknownVariantError.
func (l *AlignmentLoss) Variant(tag string) (*AlignmentLoss, error) {
	switch tag {
	case VariantBaseline, VariantFull:
		return NewAlignmentLoss(l.weights.Entries(), l.model, l.reduction, WithSemanticPenaltyWeight(l.penaltyWeight))
	case VariantNoSemanticPenalty:
		return NewAlignmentLoss(l.weights.Entries(), nil, l.reduction, WithSemanticPenaltyWeight(l.penaltyWeight))
	case VariantUniformPriority:
		return NewAlignmentLoss(uniformEntries(l.order), l.model, l.reduction, WithSemanticPenaltyWeight(l.penaltyWeight))
	default:
		return nil, &UnknownVariantError{Tag: tag}
	}
}

func uniformEntries(names []string) []WeightEntry {
	entries := make([]WeightEntry, len(names))
	for i, name := range names {
		entries[i] = WeightEntry{Name: name, Weight: 1}
	}
	return entries
}
