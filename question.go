package answerkey

// Question is one quiz question with its variables and answer formulas.
type Question struct {
	ID Scalar `json:"questionID"`
	// Answers are the blanks of the question in order.
	Answers []Answer `json:"correctAnswer"`
	// Vars is nil when the question has no variable list at all, which
	// means the question is not formula-based and is skipped. An empty list
	// is processed normally.
	Vars []Variable `json:"formulaVar"`
}

// Variable is a named value in a question. Value may be a number or a string
// spelling one.
type Variable struct {
	Name  Scalar `json:"name"`
	Value Scalar `json:"value"`
}

// Answer is the answer to one blank.
type Answer struct {
	Formula    string `json:"formula"`
	BlankIndex Scalar `json:"blankIndex"`
	Precision  Scalar `json:"precision"`
}

// AnswerResult is a computed answer.
type AnswerResult struct {
	BlankIndex   Scalar  `json:"original_blankIndex" yaml:"original_blankIndex"`
	DisplayIndex string  `json:"display_index" yaml:"display_index"`
	Formula      string  `json:"formula" yaml:"formula"`
	RawValue     float64 `json:"raw_value" yaml:"raw_value"`
	Precision    Scalar  `json:"precision" yaml:"precision"`
	RoundedValue float64 `json:"rounded_value" yaml:"rounded_value"`
	// Position is the 1-based position of the answer in the question.
	Position int `json:"position" yaml:"position"`
}

// QuestionResult holds the computed answers of a question. Answers that could
// not be computed are absent, so Answers may be shorter than the question's
// answer list. Answers is never nil.
type QuestionResult struct {
	ID      Scalar         `json:"questionID" yaml:"questionID"`
	Vars    *VarMap        `json:"var_dict" yaml:"var_dict"`
	Answers []AnswerResult `json:"answers" yaml:"answers"`
}

// Summary counts what happened in a batch.
type Summary struct {
	// Total is the number of questions in the batch.
	Total int
	// Processed is the number of questions with results.
	Processed int
	// Skipped is the number of questions without variable lists.
	Skipped int
	// Answers is the number of computed answers.
	Answers int
	// Dropped is the number of answers of processed questions that were
	// empty or failed to evaluate.
	Dropped int
}
