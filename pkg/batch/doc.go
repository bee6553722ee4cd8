/*
Package batch runs a processor over many files with bounded parallelism
and reports progress through an event stream.

	                 +-----------+
	     Job ------> | Executor  | ----> Run (Done / Wait / Results)
	                 +-----+-----+
	                       |
	         +-------------+-------------+
	         |      worker pool (N)      |
	         |  Process(file) ... x M    |
	         +-------------+-------------+
	                       |
	                  event queue
	                       |
	                  dispatcher ----> Observer(s)
	                       |
	            StartEvent * 1
	            FileEvent  * M   (completion order)
	            DoneEvent  * 1   (after full join, gather included)

🎯 Purpose:
- Executes Individual and Adjoint processors over file batches
- Bounds parallelism and isolates per-file failures as results
- Streams lifecycle events to observers in a guaranteed order

🔄 Event ordering:
1. StartEvent is observed before any FileEvent
2. FileEvents arrive in completion order, one per input file
3. DoneEvent arrives last, after every worker joined and, for adjoint
   runs, after Gather finished or failed

📝 Design Philosophy:
A file that fails to process is data, not an error: it becomes a failed
Result and the batch keeps going. Errors returned from Run itself are
reserved for mistakes the caller can fix before any work starts, like
an output target of the wrong shape. Observers never run on worker
goroutines; a single dispatcher serializes every callback, so observer
implementations need no locking of their own.

🔍 Example:

	exec, err := batch.New(proc)
	if err != nil { ... }

	run, err := exec.Run(ctx, batch.Job{
		Files:        files,
		OutputTarget: "out/",
	}, myObserver)
	if err != nil { ... }

	summary := run.Wait()
	for _, res := range summary.Results { ... }
*/
package batch
