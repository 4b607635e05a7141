package answerkey

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// resultOpts compares results by their JSON-visible content.
var resultOpts = cmp.Options{
	cmp.Comparer(func(a, b Scalar) bool { return a.Raw() == b.Raw() }),
	cmp.Comparer(func(a, b *VarMap) bool {
		x, _ := json.Marshal(a)
		y, _ := json.Marshal(b)
		return string(x) == string(y)
	}),
}

func decodeQuestions(t *testing.T, src string) []Question {
	t.Helper()
	var doc struct {
		Result []Question `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(src), &doc))
	return doc.Result
}

func testProcessor(t *testing.T, opts ...Option) (*Processor, *observer.ObservedLogs) {
	t.Helper()
	e, err := NewEvaluator(opts...)
	require.NoError(t, err)
	core, logs := observer.New(zapcore.DebugLevel)
	return NewProcessor(e, zap.New(core)), logs
}

func TestProcessEndToEnd(t *testing.T) {
	qs := decodeQuestions(t, `{"result": [{
		"questionID": "Q1",
		"formulaVar": [{"name": "r", "value": 2}],
		"correctAnswer": [{"formula": "pi*r^2", "blankIndex": 1, "precision": 0.01}]
	}]}`)
	p, _ := testProcessor(t)
	r, ok := p.Process(&qs[0])
	require.True(t, ok)
	want := &QuestionResult{
		ID:   StringScalar("Q1"),
		Vars: NewVarMap("r", 2),
		Answers: []AnswerResult{
			{
				BlankIndex:   RawScalar("1"),
				DisplayIndex: "1",
				Formula:      "pi*r^2",
				RawValue:     4 * math.Pi,
				Precision:    RawScalar("0.01"),
				RoundedValue: 12.57,
				Position:     1,
			},
		},
	}
	if diff := cmp.Diff(want, r, resultOpts); diff != "" {
		t.Errorf("wrong result (-want +got):\n%s", diff)
	}
}

func TestProcessSkipsNullVars(t *testing.T) {
	qs := decodeQuestions(t, `{"result": [
		{"questionID": "Q1", "formulaVar": null, "correctAnswer": [{"formula": "1+1", "blankIndex": 1, "precision": 1}]},
		{"questionID": "Q2", "correctAnswer": [{"formula": "1+1", "blankIndex": 1, "precision": 1}]},
		{"questionID": "Q3", "formulaVar": [], "correctAnswer": [{"formula": "1+1", "blankIndex": 1, "precision": 1}]}
	]}`)
	p, logs := testProcessor(t)
	r, ok := p.Process(&qs[0])
	assert.False(t, ok)
	assert.Nil(t, r)

	results, sum := p.Run(qs)
	assert.Equal(t, Summary{Total: 3, Processed: 1, Skipped: 2, Answers: 1}, sum)
	require.Len(t, results, 1)
	assert.Equal(t, "Q3", results[0].ID.String())
	assert.Equal(t, 0, results[0].Vars.Len())
	assert.Equal(t, 2.0, results[0].Answers[0].RoundedValue)
	assert.Equal(t, 3, logs.FilterMessage("skipping question without formula variables").Len())
}

func TestProcessDropsFailedAnswers(t *testing.T) {
	qs := decodeQuestions(t, `{"result": [{
		"questionID": "Q1",
		"formulaVar": [{"name": "a", "value": 1}],
		"correctAnswer": [
			{"formula": "a+1", "blankIndex": 1, "precision": 1},
			{"formula": "b+1", "blankIndex": 2, "precision": 1},
			{"formula": "", "blankIndex": 3, "precision": 1},
			{"blankIndex": 4, "precision": 1},
			{"formula": "sqrt(-a)", "blankIndex": 5, "precision": 1},
			{"formula": "a*10", "blankIndex": 6, "precision": 1}
		]
	}]}`)
	p, logs := testProcessor(t)
	results, sum := p.Run(qs)
	assert.Equal(t, Summary{Total: 1, Processed: 1, Answers: 2, Dropped: 4}, sum)
	require.Len(t, results, 1)
	got := results[0].Answers
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].DisplayIndex)
	assert.Equal(t, 2.0, got[0].RoundedValue)
	assert.Equal(t, "6", got[1].DisplayIndex)
	assert.Equal(t, 6, got[1].Position)
	assert.Equal(t, 10.0, got[1].RoundedValue)

	failed := logs.FilterMessage("formula evaluation failed").All()
	require.Len(t, failed, 2)
	assert.Equal(t, "b+1", failed[0].ContextMap()["formula"])
	assert.Equal(t, "Q1", failed[0].ContextMap()["question"])
	assert.Equal(t, "sqrt(-1)", failed[1].ContextMap()["rewritten"])
	assert.Equal(t, zapcore.WarnLevel, failed[1].Level)
	assert.Equal(t, 2, logs.FilterMessage("answer has no formula").Len())
}

func TestProcessDisplayIndex(t *testing.T) {
	qs := decodeQuestions(t, `{"result": [{
		"questionID": "Q1",
		"formulaVar": [],
		"correctAnswer": [
			{"formula": "1", "blankIndex": 2.5, "precision": 1},
			{"formula": "2", "blankIndex": "x", "precision": 1},
			{"formula": "3", "blankIndex": "2", "precision": 1},
			{"formula": "4", "blankIndex": null, "precision": 1},
			{"formula": "5", "precision": 1}
		]
	}]}`)
	p, _ := testProcessor(t)
	r, ok := p.Process(&qs[0])
	require.True(t, ok)
	var idx []string
	for _, a := range r.Answers {
		idx = append(idx, a.DisplayIndex)
	}
	assert.Equal(t, []string{"1", "2", "2", "4", "5"}, idx)
	assert.Equal(t, "2.5", r.Answers[0].BlankIndex.Raw())
	assert.Equal(t, "null", r.Answers[4].BlankIndex.Raw())
}

func TestProcessVariables(t *testing.T) {
	qs := decodeQuestions(t, `{"result": [{
		"questionID": 7,
		"formulaVar": [
			{"name": "a", "value": 1},
			{"name": "b", "value": "2.5"},
			{"name": "c", "value": "many"},
			{"value": 4},
			{"name": "d"},
			{"name": 5, "value": 5},
			{"name": "a", "value": 3}
		],
		"correctAnswer": [{"formula": "a*b", "blankIndex": 1, "precision": 0.1}]
	}]}`)
	p, logs := testProcessor(t)
	r, ok := p.Process(&qs[0])
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, r.Vars.Names())
	a, _ := r.Vars.Get("a")
	assert.Equal(t, 3.0, a)
	require.Len(t, r.Answers, 1)
	assert.Equal(t, 7.5, r.Answers[0].RoundedValue)
	assert.Equal(t, "7", r.ID.Raw())
	assert.Equal(t, 1, logs.FilterMessage("ignoring variable with non-numeric value").Len())
	assert.Equal(t, 1, logs.FilterMessage("ignoring variable with invalid name").Len())

	dump := logs.FilterMessage("question").All()
	require.Len(t, dump, 1)
	assert.Equal(t, map[string]interface{}{"a": 3.0, "b": 2.5}, dump[0].ContextMap()["vars"])
}

func TestProcessStrictPi(t *testing.T) {
	qs := decodeQuestions(t, `{"result": [{
		"questionID": "Q1",
		"formulaVar": [{"name": "r", "value": 2}],
		"correctAnswer": [
			{"formula": "pi*r^2", "blankIndex": 1, "precision": 0.01},
			{"formula": "pi()*r^2", "blankIndex": 2, "precision": 0.01}
		]
	}]}`)
	p, _ := testProcessor(t, WithStrictPi(true))
	r, ok := p.Process(&qs[0])
	require.True(t, ok)
	require.Len(t, r.Answers, 1)
	assert.Equal(t, "2", r.Answers[0].DisplayIndex)
	assert.Equal(t, 12.57, r.Answers[0].RoundedValue)
}

func TestResultJSON(t *testing.T) {
	qs := decodeQuestions(t, `{"result": [{
		"questionID": "Q1",
		"formulaVar": [{"name": "r", "value": 2}, {"name": "h", "value": 1}],
		"correctAnswer": [{"formula": "r/h", "blankIndex": "1", "precision": "1"}, {"formula": "x", "blankIndex": 2, "precision": 1}]
	}]}`)
	p, _ := testProcessor(t)
	results, _ := p.Run(qs)
	b, err := json.Marshal(results)
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"questionID": "Q1",
		"var_dict": {"r": 2, "h": 1},
		"answers": [{
			"original_blankIndex": "1",
			"display_index": "1",
			"formula": "r/h",
			"raw_value": 2,
			"precision": "1",
			"rounded_value": 2,
			"position": 1
		}]
	}]`, string(b))
}
