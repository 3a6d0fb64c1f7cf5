// Package dataprocessing loads equity tables and prepares a factor column
// for binning.
//
// # Components
//
//  1. Loader: reads a CSV (or the first sheet of an .xlsx) into a Table
//     whose columns are all text
//  2. Normalizer: coerces the factor column to numbers or dates, inferring
//     the type from the first value only
//  3. Cleaner: keeps {Returns, factor}, drops incomplete rows and applies
//     the Normalizer
//
// # Data Flow
//
//	CSV/XLSX → LoadTable → Table → Cleaner.Clean → CleanTable
//
// # Missing Values
//
// A cell is missing when it is empty or one of NA, NaN, null. N/A is kept as
// text and fails numeric coercion.
//
// # Error Handling
//
// Loading failures are DATA_SOURCE errors. Coercion failures are
// TYPE_COERCION errors naming the column, the 1-based data row and the value.
package dataprocessing
