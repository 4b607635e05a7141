// Package answerkey computes the answer key for batches of fill-in-the-blank
// quiz questions whose answers are formulas over per-question variables.
//
// A Processor takes each Question, builds its variable mapping, evaluates
// every answer formula with an Evaluator, and rounds the value according to
// the answer's precision. Answers that cannot be computed are dropped from the
// result rather than reported as errors; the reasons go to the logger.
//
// Formulas are evaluated by package expressions under its strict grammar.
// Nothing in a formula can do more than arithmetic and calls to the
// configured math functions.
package answerkey
