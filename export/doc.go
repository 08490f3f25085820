// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package export flattens stored DEMATEL and ANP answers into CSV rows.

DEMATEL answers are stored as {from: {to: score}}. DematelRows walks the
twelve criterion codes (A1..D3) in order and emits one row for every
ordered pair of distinct codes that has an entry.

ANP answers are stored as a positional list of six dimension comparisons
(A-B, A-C, A-D, B-C, B-D, C-D) and a map from context key to three
criterion comparisons. The dimension compared inside a context is the
second "_" segment of its key. Missing or empty values are written as
NeutralValue (5).

Both writers start the output with a UTF-8 byte-order mark so
spreadsheet tools pick the right encoding.
*/
package export
