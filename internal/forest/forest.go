// Package forest loads pre-trained tree-ensemble artifacts and evaluates
// them. Artifacts are produced offline by the training pipeline and treated
// as opaque blobs with load/predict capability; this package never trains.
package forest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

const (
	kindRegressor  = "regressor"
	kindClassifier = "classifier"
)

// node is one split or leaf in a decision tree. Leaves have Feature == -1
// and carry the tree's output in Value; split nodes route samples with
// value <= Threshold to Left, otherwise Right.
type node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
	Value     float64 `json:"value,omitempty"`
}

type tree struct {
	Nodes []node `json:"nodes"`
}

func (t tree) eval(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature < 0 {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

type artifact struct {
	Kind     string   `json:"kind"`
	Features []string `json:"features"`
	Classes  int      `json:"classes,omitempty"`
	Trees    []tree   `json:"trees"`
}

func loadArtifact(path, wantKind string) (*artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact %s: %w", path, err)
	}
	if a.Kind != wantKind {
		return nil, fmt.Errorf("artifact %s: kind %q, want %q", path, a.Kind, wantKind)
	}
	if len(a.Trees) == 0 {
		return nil, fmt.Errorf("artifact %s: no trees", path)
	}
	if len(a.Features) == 0 {
		return nil, fmt.Errorf("artifact %s: no feature list", path)
	}
	for ti, t := range a.Trees {
		if len(t.Nodes) == 0 {
			return nil, fmt.Errorf("artifact %s: tree %d empty", path, ti)
		}
		for ni, n := range t.Nodes {
			if n.Feature >= len(a.Features) {
				return nil, fmt.Errorf("artifact %s: tree %d node %d references feature %d", path, ti, ni, n.Feature)
			}
			// Children must come after their parent so eval terminates.
			if n.Feature >= 0 && (n.Left <= ni || n.Right <= ni || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes)) {
				return nil, fmt.Errorf("artifact %s: tree %d node %d child out of range", path, ti, ni)
			}
		}
	}
	return &a, nil
}

// Regressor predicts a continuous value as the mean of its trees' outputs.
type Regressor struct {
	features []string
	trees    []tree
}

// LoadRegressor reads a regressor artifact from disk.
func LoadRegressor(path string) (*Regressor, error) {
	a, err := loadArtifact(path, kindRegressor)
	if err != nil {
		return nil, err
	}
	return &Regressor{features: a.Features, trees: a.Trees}, nil
}

// Features returns the feature names the model was trained with, in order.
func (r *Regressor) Features() []string {
	return r.features
}

// Predict returns the ensemble mean for a feature vector in training order.
func (r *Regressor) Predict(x []float64) float64 {
	var sum float64
	for _, t := range r.trees {
		sum += t.eval(x)
	}
	return sum / float64(len(r.trees))
}

// Classifier predicts an integer class code by majority vote across trees.
type Classifier struct {
	features []string
	classes  int
	trees    []tree
}

// LoadClassifier reads a classifier artifact from disk.
func LoadClassifier(path string) (*Classifier, error) {
	a, err := loadArtifact(path, kindClassifier)
	if err != nil {
		return nil, err
	}
	if a.Classes <= 0 {
		return nil, fmt.Errorf("artifact %s: classifier with %d classes", path, a.Classes)
	}
	return &Classifier{features: a.Features, classes: a.Classes, trees: a.Trees}, nil
}

// Features returns the feature names the model was trained with, in order.
func (c *Classifier) Features() []string {
	return c.features
}

// Classes returns the number of classes the model was trained against.
// This can legitimately exceed the label vocabulary when artifacts are
// mismatched; callers must treat such codes as unknown, not crash.
func (c *Classifier) Classes() int {
	return c.classes
}

// Predict returns the majority-vote class code. Ties break toward the
// lowest code so the result is deterministic.
func (c *Classifier) Predict(x []float64) int {
	votes := make(map[int]int)
	for _, t := range c.trees {
		votes[int(t.eval(x))]++
	}
	best, bestVotes := 0, -1
	for code, n := range votes {
		if n > bestVotes || (n == bestVotes && code < best) {
			best, bestVotes = code, n
		}
	}
	return best
}

// Vocabulary maps classifier codes to crop names and back. Codes are
// assigned at training time and stable for the classifier's lifetime.
type Vocabulary struct {
	names []string
	codes map[string]int
}

type vocabularyFile struct {
	Labels []string `json:"labels"`
}

// LoadVocabulary reads a label vocabulary artifact from disk.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	var vf vocabularyFile
	if err := json.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	if len(vf.Labels) == 0 {
		return nil, errors.New("vocabulary has no labels")
	}
	v := &Vocabulary{names: vf.Labels, codes: make(map[string]int, len(vf.Labels))}
	for i, name := range vf.Labels {
		v.codes[name] = i
	}
	return v, nil
}

// Size returns the number of known labels.
func (v *Vocabulary) Size() int {
	return len(v.names)
}

// Name returns the label for a code, or false if the code is out of range.
func (v *Vocabulary) Name(code int) (string, bool) {
	if code < 0 || code >= len(v.names) {
		return "", false
	}
	return v.names[code], true
}

// Code returns the code for a label, or false if the label is unknown.
func (v *Vocabulary) Code(name string) (int, bool) {
	code, ok := v.codes[name]
	return code, ok
}
