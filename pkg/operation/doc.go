/*
Package operation is the high-level entry point for running processors.

	+----------+     +-----------+     +---------+
	| registry |     |  config   |     |  batch  |
	| (lookup) |     | (defaults)|     | (engine)|
	+----+-----+     +-----+-----+     +----+----+
	     |                 |                |
	     +--------+--------+----------------+
	              |
	        +-----+-----+
	        | Operator  |
	        | (driver)  |
	        +-----------+

🎯 Purpose:
- Resolves a processor by name and feeds it a batch of files
- Collects inputs from explicit paths and glob patterns
- Picks the output target from request, config, or category default
- Probes processor dependencies before anything runs

🔄 Flow:
1. ProcessBatch resolves the processor and preflights its dependencies
2. Inputs are collected and filtered through the accepted file types
3. The batch engine runs the job; observers passed in see every event
4. The closing event comes back to the caller once the run finished

📝 Design Philosophy:
The operator is glue, nothing more. All processing semantics live in
pkg/batch and the processors themselves; all presentation lives in the
observers the caller passes in. Keeping the operator synchronous means
drivers like the CLI stay a single call deep; programs that want the
run handle use pkg/batch directly.

🔍 Example:

	op, err := operation.New(operation.Options{Registry: reg, Config: cfg})
	done, err := op.ProcessBatch(ctx, operation.Request{
		Processor: "stats",
		Glob:      "data/*.csv",
		Observers: []batch.Observer{status.NewConsole(ctx, os.Stdout)},
	})
*/
package operation
