// Package nd implements typed, dynamically shaped arrays and assignment of
// nested literals into them.
//
// An array's storage is laid out according to its dtype. Fixed dimensions and
// structs are stored inline, while var dimension rows and variable-length
// strings live in separately allocated blocks referenced from their cell.
//
// Assigning a literal walks the dtype top-down:
//
//   - A fixed dimension of extent n takes a sequence of length n positionally.
//     Any other value which fits a single element is broadcast to all n of
//     them. Anything else is a dimension mismatch.
//   - A var dimension row takes a sequence of its current length positionally.
//     A one element sequence is broadcast over a longer row. Any other
//     sequence replaces the row with a fresh one of the sequence's length.
//     A non-sequence which fits an element is broadcast over the existing row,
//     so a row which was never assigned, as in a fresh Empty array, stays
//     empty. Through a field view a row can't be resized, since its elements
//     are whole structs.
//   - A struct takes either a sequence with exactly one item per field, in
//     declaration order, or a mapping with exactly the declared field names.
//   - Leaf cells convert the value, checking the integer range, the fixed
//     string width and the numeric kind.
//
// Field and Index return views which share storage with their parent. A
// field selected on an array of structs keeps the outer dimensions, so
// selecting "count" on 2, Var, {count: int32; size: string(1)} yields an
// array of type 2, Var, int32.
package nd
