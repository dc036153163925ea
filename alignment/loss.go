// Package alignment implements a training-time loss that pulls a model's
// feature batch toward named, independently weighted target attribute
// vectors, with an optional semantic penalty scored by an external joint
// vision-language embedding model.
package alignment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Catch-an-orange/Attribute-Alignment-Loss/semantic"
	"github.com/Catch-an-orange/Attribute-Alignment-Loss/tensor"
)

// DefaultSemanticPenaltyWeight scales the semantic penalty term when it is
// blended into the total loss. Fixed per instance; override at construction
// with WithSemanticPenaltyWeight.
const DefaultSemanticPenaltyWeight = 0.3

// Reduction modes over the batch dimension. Attribute contributions are
// always summed: the priority weights already act as the normalization.
const (
	ReductionMean = "mean"
	ReductionSum  = "sum"
)

// Option configures an AlignmentLoss at construction.
type Option func(*AlignmentLoss)

// WithSemanticPenaltyWeight overrides the semantic penalty coefficient.
func WithSemanticPenaltyWeight(w float64) Option {
	return func(l *AlignmentLoss) {
		l.penaltyWeight = w
	}
}

// AlignmentLoss scores a [B, D] feature batch against named target attribute
// vectors. Each attribute's batch-reduced cosine dissimilarity is scaled by
// that attribute's trainable priority and summed; when a semantic model is
// attached and the targets carry text, a detached semantic penalty is
// blended in.
//
// The priority parameters are the only state that changes after
// construction, and only via gradient descent. Forward calls are stateless
// and may run concurrently as long as parameter updates are serialized by
// the surrounding training framework.
type AlignmentLoss struct {
	weights       *AttributeWeights
	order         []string
	params        map[string]*tensor.Tensor
	model         semantic.Model
	reduction     string
	penaltyWeight float64
}

// NewAlignmentLoss validates and normalizes the weight entries, seeds one
// trainable priority scalar per attribute from its normalized weight, and
// attaches the optional semantic model. An empty reduction defaults to
// ReductionMean.
func NewAlignmentLoss(entries []WeightEntry, model semantic.Model, reduction string, opts ...Option) (*AlignmentLoss, error) {
	weights, err := NewAttributeWeights(entries)
	if err != nil {
		return nil, err
	}

	if reduction == "" {
		reduction = ReductionMean
	}
	if reduction != ReductionMean && reduction != ReductionSum {
		return nil, fmt.Errorf("unsupported reduction %q: must be %q or %q", reduction, ReductionMean, ReductionSum)
	}

	l := &AlignmentLoss{
		weights:       weights,
		order:         weights.Names(),
		params:        make(map[string]*tensor.Tensor, weights.Len()),
		model:         model,
		reduction:     reduction,
		penaltyWeight: DefaultSemanticPenaltyWeight,
	}

	for _, opt := range opts {
		opt(l)
	}
	if l.penaltyWeight < 0 {
		return nil, fmt.Errorf("semantic penalty weight must be non-negative, got %g", l.penaltyWeight)
	}

	for _, name := range l.order {
		w, _ := weights.Value(name)
		p := tensor.FromScalar(w)
		p.SetRequiresGrad(true)
		l.params[name] = p
	}

	return l, nil
}

// Names returns the attribute names in canonical order.
func (l *AlignmentLoss) Names() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Parameters returns the trainable priority scalars in canonical attribute
// order, for handing to an optimizer.
func (l *AlignmentLoss) Parameters() []*tensor.Tensor {
	params := make([]*tensor.Tensor, 0, len(l.order))
	for _, name := range l.order {
		params = append(params, l.params[name])
	}
	return params
}

// Priority returns the current (possibly gradient-updated) priority value
// for an attribute.
func (l *AlignmentLoss) Priority(name string) (float32, error) {
	p, ok := l.params[name]
	if !ok {
		return 0, &UnknownAttributeError{Name: name}
	}
	return p.Data[0], nil
}

// RestorePriorities overwrites the current priority values, e.g. when
// resuming from a checkpoint. Every name must be registered.
func (l *AlignmentLoss) RestorePriorities(values map[string]float64) error {
	for name := range values {
		if _, ok := l.params[name]; !ok {
			return &UnknownAttributeError{Name: name}
		}
	}
	for name, v := range values {
		l.params[name].Data[0] = float32(v)
	}
	return nil
}

// attrScore holds one attribute's batch-reduced dissimilarity and the
// per-row similarities needed for the backward pass.
type attrScore struct {
	name   string
	param  *tensor.Tensor
	target *tensor.Tensor
	sims   []float64
	dissim float64
}

// scoreAttributes computes per-attribute cosine dissimilarities, reduced
// over the batch per the configured reduction mode.
func (l *AlignmentLoss) scoreAttributes(features *tensor.Tensor, targets TargetsBundle) ([]attrScore, error) {
	if len(features.Shape) != 2 {
		return nil, fmt.Errorf("features must be 2D [batch_size, features], got shape %v", features.Shape)
	}

	batchSize := features.Shape[0]
	featureDim := features.Shape[1]

	reduceFactor := 1.0
	if l.reduction == ReductionMean {
		reduceFactor = 1.0 / float64(batchSize)
	}

	scores := make([]attrScore, 0, len(targets.Attributes))
	for _, target := range targets.Attributes {
		param, ok := l.params[target.Name]
		if !ok {
			return nil, &UnknownAttributeError{Name: target.Name}
		}

		if len(target.Vector.Shape) != 1 {
			return nil, fmt.Errorf("target vector for attribute %q must be 1D [features], got shape %v", target.Name, target.Vector.Shape)
		}
		if target.Vector.Shape[0] != featureDim {
			return nil, &DimensionMismatchError{Attribute: target.Name, Want: featureDim, Got: target.Vector.Shape[0]}
		}

		sims, err := tensor.BatchCosineSimilarity(features, target.Vector)
		if err != nil {
			return nil, fmt.Errorf("cosine similarity for attribute %q: %v", target.Name, err)
		}

		var dissim float64
		for _, sim := range sims {
			dissim += 1.0 - sim
		}
		dissim *= reduceFactor

		scores = append(scores, attrScore{
			name:   target.Name,
			param:  param,
			target: target.Vector,
			sims:   sims,
			dissim: dissim,
		})
	}

	return scores, nil
}

// Forward computes the scalar loss for one feature batch against one
// targets bundle. The semantic penalty participates only when a model is
// attached and the bundle carries text; its computation is grad-free, so
// gradients (see Backward) flow through the alignment term alone.
func (l *AlignmentLoss) Forward(ctx context.Context, features *tensor.Tensor, targets TargetsBundle) (*tensor.Tensor, error) {
	scores, err := l.scoreAttributes(features, targets)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, s := range scores {
		total += float64(s.param.Data[0]) * s.dissim
	}

	if l.model != nil && targets.RawText != "" {
		penalty, err := l.semanticPenalty(ctx, features, targets.RawText)
		if err != nil {
			return nil, err
		}
		total += l.penaltyWeight * penalty
	}

	return tensor.FromScalar(total), nil
}

// Backward computes analytic gradients for the same inputs: each priority
// parameter accumulates its attribute's batch-reduced dissimilarity, and the
// returned [B, D] tensor is the loss gradient with respect to the feature
// batch for upstream backpropagation. The semantic penalty sits behind a
// detach boundary and contributes to no gradient.
func (l *AlignmentLoss) Backward(features *tensor.Tensor, targets TargetsBundle) (*tensor.Tensor, error) {
	scores, err := l.scoreAttributes(features, targets)
	if err != nil {
		return nil, err
	}

	batchSize := features.Shape[0]
	featureDim := features.Shape[1]

	reduceFactor := 1.0
	if l.reduction == ReductionMean {
		reduceFactor = 1.0 / float64(batchSize)
	}

	grad, err := tensor.Zeros(features.Shape)
	if err != nil {
		return nil, err
	}

	for _, s := range scores {
		if err := s.param.AccumulateGrad(tensor.FromScalar(s.dissim)); err != nil {
			return nil, fmt.Errorf("priority gradient for attribute %q: %v", s.name, err)
		}

		priority := float64(s.param.Data[0])
		targetNorm := tensor.Norm(s.target)
		if targetNorm == 0 {
			continue
		}

		for b := 0; b < batchSize; b++ {
			row := features.Data[b*featureDim : (b+1)*featureDim]
			rowTensor := &tensor.Tensor{Shape: []int{featureDim}, Strides: []int{1}, Data: row, NumElems: featureDim}
			rowNorm := tensor.Norm(rowTensor)
			if rowNorm == 0 {
				continue
			}

			// d(1-cos)/dx = cos * x/|x|^2 - v/(|x||v|)
			scale := priority * reduceFactor
			cosScale := scale * s.sims[b] / (rowNorm * rowNorm)
			vecScale := scale / (rowNorm * targetNorm)

			gradRow := grad.Data[b*featureDim : (b+1)*featureDim]
			for j := 0; j < featureDim; j++ {
				gradRow[j] += float32(cosScale*float64(row[j]) - vecScale*float64(s.target.Data[j]))
			}
		}
	}

	return grad, nil
}

// semanticPenalty returns 1 minus the mean cosine similarity between the
// text embedding and the per-sample feature embeddings, in [0, 2]. Model
// failures propagate unchanged as *SemanticModelError.
func (l *AlignmentLoss) semanticPenalty(ctx context.Context, features *tensor.Tensor, text string) (float64, error) {
	textEmb, err := l.model.EncodeText(ctx, text)
	if err != nil {
		return 0, &SemanticModelError{Op: "encode_text", Err: err}
	}

	featEmbs, err := l.model.EncodeFeatures(ctx, features)
	if err != nil {
		return 0, &SemanticModelError{Op: "encode_features", Err: err}
	}
	if len(featEmbs) == 0 {
		return 0, &SemanticModelError{Op: "encode_features", Err: errors.New("no embeddings returned")}
	}

	var meanSim float64
	for _, emb := range featEmbs {
		if len(emb) != len(textEmb) {
			return 0, &SemanticModelError{
				Op:  "compare_embeddings",
				Err: fmt.Errorf("embedding dimensions disagree: text %d, features %d", len(textEmb), len(emb)),
			}
		}
		meanSim += tensor.CosineSimilarity(textEmb, emb)
	}
	meanSim /= float64(len(featEmbs))

	return 1.0 - meanSim, nil
}

// String returns a human-readable summary for monitoring: the ordered
// attribute names and whether a semantic model is attached.
func (l *AlignmentLoss) String() string {
	model := "none"
	if l.model != nil {
		model = "attached"
	}
	return fmt.Sprintf("AlignmentLoss(attributes=[%s], semantic_model=%s, reduction=%s)",
		strings.Join(l.order, " "), model, l.reduction)
}
