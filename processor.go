package answerkey

import (
	"math"

	"go.uber.org/zap"
)

// Processor computes question results.
type Processor struct {
	eval *Evaluator
	log  *zap.Logger
}

// NewProcessor creates a processor that evaluates formulas with eval and
// writes diagnostics to log. If log is nil, diagnostics are discarded.
func NewProcessor(eval *Evaluator, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{eval: eval, log: log}
}

// Process computes the answers of a question. The result is nil and false if
// the question has no variable list. Answers with empty formulas or formulas
// that fail to evaluate are left out of the result.
func (p *Processor) Process(q *Question) (*QuestionResult, bool) {
	log := p.log.With(zap.Stringer("question", q.ID))
	if q.Vars == nil {
		log.Info("skipping question without formula variables")
		return nil, false
	}
	vars := p.vars(log, q.Vars)
	log.Info("question", zap.Object("vars", vars))
	r := QuestionResult{
		ID:      q.ID,
		Vars:    vars,
		Answers: make([]AnswerResult, 0, len(q.Answers)),
	}
	for i := range q.Answers {
		a := &q.Answers[i]
		pos := i + 1
		idx := a.BlankIndex.DisplayIndex(pos)
		if a.Formula == "" {
			log.Debug("answer has no formula", zap.Int("position", pos), zap.String("blank", idx))
			continue
		}
		v, err := p.eval.Evaluate(a.Formula, vars)
		if err != nil {
			fields := []zap.Field{zap.Int("position", pos), zap.String("blank", idx), zap.String("formula", a.Formula)}
			if fe, ok := err.(*FormulaError); ok {
				fields = append(fields, zap.String("rewritten", fe.Rewritten), zap.NamedError("error", fe.Err))
			} else {
				fields = append(fields, zap.Error(err))
			}
			log.Warn("formula evaluation failed", fields...)
			continue
		}
		rv := RoundToPrecision(v, a.Precision)
		r.Answers = append(r.Answers, AnswerResult{
			BlankIndex:   a.BlankIndex,
			DisplayIndex: idx,
			Formula:      a.Formula,
			RawValue:     v,
			Precision:    a.Precision,
			RoundedValue: rv,
			Position:     pos,
		})
		log.Info("answer",
			zap.String("blank", idx),
			zap.String("formula", a.Formula),
			zap.Float64("raw", v),
			zap.Float64("rounded", rv),
		)
	}
	return &r, true
}

// vars builds the variable mapping of a question. Entries without a name or
// value are skipped, as are entries whose values are not finite numbers.
func (p *Processor) vars(log *zap.Logger, list []Variable) *VarMap {
	m := new(VarMap)
	for i, v := range list {
		if v.Name.IsNull() || v.Value.IsNull() {
			continue
		}
		name, ok := v.Name.str()
		if !ok || name == "" {
			log.Warn("ignoring variable with invalid name", zap.Int("index", i), zap.String("name", v.Name.Raw()))
			continue
		}
		x, ok := v.Value.number()
		if !ok || math.IsInf(x, 0) || math.IsNaN(x) {
			log.Warn("ignoring variable with non-numeric value", zap.String("name", name), zap.String("value", v.Value.Raw()))
			continue
		}
		m.Set(name, x)
	}
	return m
}

// Run processes a batch of questions in order.
func (p *Processor) Run(questions []Question) ([]QuestionResult, Summary) {
	results := make([]QuestionResult, 0, len(questions))
	s := Summary{Total: len(questions)}
	for i := range questions {
		r, ok := p.Process(&questions[i])
		if !ok {
			s.Skipped++
			continue
		}
		results = append(results, *r)
		s.Processed++
		s.Answers += len(r.Answers)
		s.Dropped += len(questions[i].Answers) - len(r.Answers)
	}
	return results, s
}
