// Package semantic defines the joint vision-language embedding capability
// the alignment loss consults for its text penalty term. The loss never owns
// the model's lifecycle; it only asks it for vectors it can compare with
// cosine similarity.
package semantic

import (
	"context"
	"fmt"

	"github.com/Catch-an-orange/Attribute-Alignment-Loss/tensor"
)

// Model encodes text and model features into a shared embedding space.
type Model interface {
	// EncodeText embeds a free-text description.
	EncodeText(ctx context.Context, text string) ([]float32, error)

	// EncodeFeatures embeds a [B, D] feature batch, one embedding per sample.
	EncodeFeatures(ctx context.Context, features *tensor.Tensor) ([][]float32, error)
}

// FeatureRows splits a [B, D] feature batch into per-sample vectors. Each
// row is copied so callers cannot alias the batch's backing storage.
func FeatureRows(features *tensor.Tensor) ([][]float32, error) {
	if len(features.Shape) != 2 {
		return nil, fmt.Errorf("features must be 2D [batch_size, features], got shape %v", features.Shape)
	}

	b, d := features.Shape[0], features.Shape[1]
	rows := make([][]float32, b)
	for i := 0; i < b; i++ {
		row := make([]float32, d)
		copy(row, features.Data[i*d:(i+1)*d])
		rows[i] = row
	}
	return rows, nil
}
