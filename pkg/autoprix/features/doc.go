// Package features turns a RawInput into the numeric vector a trained
// predictor expects.
//
// Encoding follows the training frame: numeric columns first, then one
// indicator column named <prefix>_<value> per categorical field. The vector is
// then reconciled against the predictor's Schema: schema columns the record
// lacks are filled with 0, record columns the schema lacks are dropped, and
// the result is laid out in schema order. Because the first training category
// of every field never appears in a drop-first schema, reconciliation alone
// reproduces the drop-first convention of the training data regardless of
// what the request contains.
package features
