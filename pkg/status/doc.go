/*
Package status renders batch runs for humans and machines.

	             +-----------+
	             |   batch   |
	             |  events   |
	             +-----+-----+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|  Console  | | Logger  | | Collector |
	|  (UI/UX)  | | (logs)  | | (capture) |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Renders run progress on terminals (pterm + color)
- Emits structured run logs (zerolog)
- Captures event streams for machine-readable output and tests

🔄 Flow:
1. The batch dispatcher feeds events to the chosen observer(s)
2. Console prints prefix-styled lines and mirrors them into zerolog
3. Logger writes pure structured events for non-interactive runs
4. Collector stores the stream so drivers can serialize it afterwards

📝 Design Philosophy:
Observers are presentation only. They never decide anything about the
run, never mutate results, and never block each other: the dispatcher
already serializes callbacks, so Console and Logger carry no locks at
all. Collector locks because its readers live on other goroutines.

🚧 Roadmap:
- Progress bar rendering for batches large enough that per-file rows
  scroll away (pterm has the primitives, the hook is OnFileComplete)

🔍 Example:

	console := status.NewConsole(ctx, os.Stdout)
	run, err := exec.Run(ctx, job, console)
*/
package status
