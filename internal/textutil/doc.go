// Package textutil provides text processing utilities for similarity scoring
// and filename sanitization.
//
// Two similarity strategies are offered: a sequence ratio over normalized
// strings (the default for annotation binding) and a token-frequency cosine
// similarity suited to longer extracted text. Normalization folds case and
// collapses whitespace so scanned text compares stably.
package textutil
