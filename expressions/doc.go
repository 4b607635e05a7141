// Package expressions parses and evaluates answer formulas.
//
// A formula is arithmetic over decimal numbers and variable names with
// + - * / and ^ (or **) for exponentiation, round brackets, and calls to a
// small library of functions: sqrt, exp, log, log10, pow, sin, cos, tan, atan
// and pi. Every operation is written out: "2*x" and "sin(x)", never "2 x" or
// "sin x". "-2^2^n" is the same as "-(2^(2^n))".
//
// Evaluation uses big.Float at a chosen precision and never executes anything
// but arithmetic and the library functions, so formulas from untrusted input
// are safe to evaluate.
package expressions
