// Package invoice holds the invoice draft and the pricing rules applied to it.
//
// A Draft is plain form state. Each mutating method returns a new Draft that has
// already been passed through Recompute, so RemainingAmount always equals
// max(0, total - payableNow). Numeric input is kept as typed text (Amount) and read
// leniently: anything that does not start with a number counts as zero.
package invoice
