// Package builtin ships the processors compiled into filemill itself.
//
// Each processor registers a factory with the registry from init(), so
// a driver only needs a blank import:
//
//	import _ "github.com/walteh/filemill/pkg/builtin"
//
// 📦 Shipped processors:
//   - copyfile (individual): copies inputs into the output directory
//   - stats (individual): numeric column statistics over CSV tables
//   - textreport (adjoint): line/word/character counts, one combined report
//   - timeseries (individual): per-column RMSE over time series CSV
package builtin
