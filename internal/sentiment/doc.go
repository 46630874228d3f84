// Package sentiment scores news text with three independent scorers and
// fuses their results into one verdict.
//
// The valence scorer is VADER (via govader): rule-adjusted word valences
// normalised into a compound score in [-1, 1]. The polarity scorer averages
// pattern-style adjective polarity and subjectivity with intensifiers and
// negation. The lexicon scorer sums AFINN-165 integer word valences.
//
// Engine.Analyze combines them as
//
//	fused = 0.4*compound + 0.3*polarity + 0.3*clamp(lexicon/5, -1, 1)
//
// and labels the result positive above 0.05, negative below -0.05, and
// neutral otherwise.
package sentiment
