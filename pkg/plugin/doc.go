/*
Package plugin loads external command plugins and adapts them to the
processor contract.

	 plugin binary                        filemill
	+-------------+   describe   +------------------------+
	|  manifest   | -----------> | schema-validated       |
	|  (JSON)     |              | Manifest -> Descriptor |
	+-------------+              +------------------------+
	|  process    | <----------- | per-file invocation    |
	|  gather     | <----------- | adjoint combine step   |
	+-------------+              +------------------------+

🎯 Purpose:
- Probes candidate executables with a `describe` subcommand
- Validates the emitted manifest against a generated JSON schema
- Wraps conforming binaries as Individual or Adjoint processors

🔄 Protocol (version 1):
1. `<plugin> describe` prints a Manifest as JSON on stdout
2. Individual: `<plugin> process --input F --output-dir D --format EXT`
   prints {"artifact": "<path>"} on success
3. Adjoint: `<plugin> process --input F` prints {"value": <json>}
4. Adjoint: `<plugin> gather --output PATH --format EXT` reads the
   collected values as a JSON array on stdin

A non-zero exit or a non-empty "error" field marks the call failed. The
plugin's stderr is carried into the error message for diagnosis.

📝 Design Philosophy:
Anything that goes wrong while loading one candidate (a manifest that
is not JSON, fails the schema, or claims an unsupported protocol) is
reported as ErrLoad so callers can skip the candidate and keep loading
the rest. One broken file in a plugin directory never takes down
discovery.
*/
package plugin
