package ml

import (
	onnxruntime "github.com/yalue/onnxruntime_go"

	"hypewatch/pkg/errors"
)

// TextClassifier wraps an ONNX Runtime session for transformer-style
// sequence classification: token ids in, class logits out.
type TextClassifier struct {
	session    *onnxruntime.DynamicAdvancedSession
	numClasses int
}

// LoadTextClassifier loads a sequence classification model from file.
// The model is expected to take input_ids, attention_mask and
// token_type_ids and produce a single logits output.
func LoadTextClassifier(modelPath string, numClasses int) (*TextClassifier, error) {
	// Initialize ONNX runtime environment (idempotent)
	if err := onnxruntime.InitializeEnvironment(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize ONNX runtime")
	}

	options, err := onnxruntime.NewSessionOptions()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session options")
	}
	defer options.Destroy()

	session, err := onnxruntime.NewDynamicAdvancedSession(modelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"logits"}, options)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load ONNX model")
	}

	return &TextClassifier{
		session:    session,
		numClasses: numClasses,
	}, nil
}

// Logits runs inference for one tokenized sequence and returns the raw
// class logits, length numClasses.
func (m *TextClassifier) Logits(inputIDs, attentionMask []int64) ([]float32, error) {
	if m.session == nil {
		return nil, errors.New("model session is nil")
	}
	if len(inputIDs) == 0 || len(inputIDs) != len(attentionMask) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "bad sequence lengths: %d ids, %d mask", len(inputIDs), len(attentionMask))
	}

	seqLen := int64(len(inputIDs))
	inputShape := onnxruntime.NewShape(1, seqLen)

	idsTensor, err := onnxruntime.NewTensor(inputShape, inputIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create input_ids tensor")
	}
	defer idsTensor.Destroy()

	maskTensor, err := onnxruntime.NewTensor(inputShape, attentionMask)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create attention_mask tensor")
	}
	defer maskTensor.Destroy()

	typeTensor, err := onnxruntime.NewTensor(inputShape, make([]int64, seqLen))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create token_type_ids tensor")
	}
	defer typeTensor.Destroy()

	logits := make([]float32, m.numClasses)
	logitsShape := onnxruntime.NewShape(1, int64(m.numClasses))
	logitsTensor, err := onnxruntime.NewTensor(logitsShape, logits)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create logits tensor")
	}
	defer logitsTensor.Destroy()

	inputs := []onnxruntime.Value{idsTensor, maskTensor, typeTensor}
	outputs := []onnxruntime.Value{logitsTensor}
	if err := m.session.Run(inputs, outputs); err != nil {
		return nil, errors.Wrap(err, "inference failed")
	}

	out := make([]float32, m.numClasses)
	copy(out, logitsTensor.GetData())
	return out, nil
}

// Destroy cleans up the ONNX session
func (m *TextClassifier) Destroy() {
	if m.session != nil {
		m.session.Destroy()
		m.session = nil
	}
}
