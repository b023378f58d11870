// Package scorer fuses lexical and vector result lists into one ranking.
//
// Each side's scores are min-max normalized into [0,1] independently, then
// combined with a configurable weight:
//
//	combined = w*vectorNorm + (1-w)*lexicalNorm
//
// The weight is pure configuration; the normalization and fusion formula
// never change, so the weight can be swept without code changes. w=0
// reproduces pure lexical ranking and w=1 pure vector ranking exactly.
package scorer
