/*
Package runner implements the read loop and output handling around a tinysplit Session.

It acts as the bridge between the parser and the outside world: it reads lines
from an io.Reader, strips their terminators, feeds them to the session and hands
every result to a pluggable OutputHandler. The final end-of-stream result is
delivered too, so handlers can report the last open scopes.

# Key Components

  - Runner: The read loop. It honors context cancellation between lines.
  - OutputHandler: Decouples how results are presented (text, NDJSON, in-memory).
  - TextHandler: Human-readable breadcrumbs, optionally colored by a LineRenderer.
  - JSONHandler: One domain.LineRecord per line, as NDJSON.
  - Collector: Keeps every record in memory, for servers and tests.

# Usage

	r := runner.NewRunner(
		runner.WithHandler(runner.NewTextHandler(os.Stdout)),
		runner.WithLogger(logger),
	)

	if err := r.Run(ctx, os.Stdin); err != nil {
		log.Fatal(err)
	}
*/
package runner
