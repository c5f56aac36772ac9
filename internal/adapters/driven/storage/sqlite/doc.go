// Package sqlite provides the SQLite-backed catalog: asset, link and
// album stores behind one database handle, plus the keyword search
// channel and facet aggregation. Schema changes ship as embedded
// migrations applied on open.
package sqlite
