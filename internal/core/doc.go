// Package core provides the filtering and grouping logic for the CVE
// mitigation datasets.
//
// This package holds the data model and every computation the analyst tools
// rely on, independent of any console, driver or report layer. It can be used
// by the interactive filter session, the report aggregator, or tests without
// modification.
//
// # Data Model
//
// A [Dataset] is an ordered, immutable sequence of rows sharing a fixed set of
// column names. Rows are addressed positionally; a [Row] resolves values by
// column name. A value is missing when it is empty after trimming whitespace.
//
// # Filtering
//
// Selections are 1-based, the way they are presented to the analyst:
//
//	col, err := ds.ColumnAt(3)          // "OS"
//	values := ds.DistinctValues(col)    // first-occurrence order
//	val, err := ValueAt(values, 1)      // "Linux"
//	subset := ds.Filter(col, val)       // exact string equality
//	summary := Summarize(subset, KindGeneral, col, val)
//
// # Boolean Columns
//
// Indicator columns are not declared by schema. [IsBoolColumn] detects them
// from content and [ToBool] normalizes tokens strictly: anything outside the
// true/yes/1 and false/no/0 vocabulary counts as "no".
//
// # Category Normalization
//
// Labels that describe the same category with different wording are folded
// onto one canonical key by the ordered rule table in [DefaultCategoryRules]
// before any cross-run accumulation.
//
// # Error Handling
//
// Failures carry a [Kind] (input validation, data unavailable, parse mismatch,
// normalization gap, run failed). [Describe] maps errors to coded notices:
//
//   - IN001-IN003: Input validation (menu, column, value choices)
//   - DATA001-DATA002: Dataset missing or unreadable
//   - RUN001-RUN002: Scripted run timed out or crashed
package core
