package semantic

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/Catch-an-orange/Attribute-Alignment-Loss/tensor"
)

// ONNXConfig configures an ONNX-backed joint embedding model.
type ONNXConfig struct {
	// ModelPath points at a local feature-extraction model directory.
	ModelPath string
	// Name identifies the pipeline within the hugot session.
	Name string
	// OrtLibraryPath optionally points at the onnxruntime shared library.
	OrtLibraryPath string
}

// ONNXModel implements Model using a hugot feature-extraction pipeline for
// the text side. Feature batches are assumed to already live in the joint
// space (the upstream model is trained against this embedder), so
// EncodeFeatures passes rows through unchanged.
type ONNXModel struct {
	cfg      ONNXConfig
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
	mu       sync.RWMutex
}

// NewONNXModel creates the session and pipeline eagerly so construction
// failures surface before training starts.
func NewONNXModel(cfg ONNXConfig) (*ONNXModel, error) {
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("model path is required")
	}
	if cfg.Name == "" {
		cfg.Name = "semantic-penalty"
	}

	sessionOpts := []options.WithOption{
		options.WithIntraOpNumThreads(runtime.NumCPU()),
	}
	if cfg.OrtLibraryPath != "" {
		sessionOpts = append(sessionOpts, options.WithOnnxLibraryPath(cfg.OrtLibraryPath))
	}

	session, err := hugot.NewORTSession(sessionOpts...)
	if err != nil {
		return nil, fmt.Errorf("create ORT session: %w", err)
	}

	pipelineConfig := hugot.FeatureExtractionConfig{
		ModelPath: cfg.ModelPath,
		Name:      cfg.Name,
	}

	pipeline, err := hugot.NewPipeline(session, pipelineConfig)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("create pipeline: %w", err)
	}

	return &ONNXModel{
		cfg:      cfg,
		session:  session,
		pipeline: pipeline,
	}, nil
}

func (m *ONNXModel) EncodeText(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.pipeline == nil {
		return nil, fmt.Errorf("pipeline is closed")
	}

	output, err := m.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	if len(output.Embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return output.Embeddings[0], nil
}

func (m *ONNXModel) EncodeFeatures(ctx context.Context, features *tensor.Tensor) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return FeatureRows(features)
}

func (m *ONNXModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		m.session.Destroy()
		m.session = nil
	}
	m.pipeline = nil
	return nil
}
