// Package specifier models PEP 440 version specifiers and PEP 508
// requirement strings as far as dependency reconciliation needs them:
// parsing, canonical form, Simple/Complex classification and lower-bound
// extraction.
package specifier
