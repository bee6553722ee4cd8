/*
Package processor defines the contract every filemill transformation
implements.

	             +--------------+
	             |  Processor   |
	             | (Descriptor) |
	             +------+-------+
	                    |
	       +------------+------------+
	       |                         |
	+------+------+          +------+-------+
	|  Individual |          |   Adjoint    |
	| (per-file   |          | (per-file    |
	|  artifact)  |          |  value, one  |
	|             |          |  Gather)     |
	+-------------+          +--------------+

🎯 Purpose:
- Defines the two processing variants (Individual, Adjoint)
- Exposes read-only descriptor metadata to drivers
- Resolves save-format selections and input file-type matches
- Reports missing external dependencies without failing

🔄 Flow:
1. Registry discovers implementations and reads their descriptors
2. Driver picks a processor and a save format from the descriptor
3. Batch executor calls Process per file (and Gather once for Adjoint)
4. Artifacts land wherever the executor points the processor

🤝 Interfaces:
- Processor: descriptor access shared by both variants
- Individual: one persisted artifact per input file
- Adjoint: per-file intermediate values combined by a single Gather call

📝 Design Philosophy:
A processor instance carries no per-run state. Everything a run needs
(input file, output directory or path, save format) arrives as call
parameters, so an instance can serve back-to-back runs without a reset
step. Concurrent reuse of one instance across overlapping runs is
undefined behavior; drivers that need overlap should discover separate
instances.

🔍 Example:

	desc := proc.Describe()
	format := desc.ResolveFormat("csv")

	if ind, ok := proc.(processor.Individual); ok {
		artifact, err := ind.Process(ctx, file, outputDir, format)
		// ...
	}
*/
package processor
