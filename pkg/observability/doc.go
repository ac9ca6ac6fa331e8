/*
Package observability exports Prometheus metrics for splitting sessions.

Metrics plugs into a session in two places: its Hooks count scope pushes and
pops as they happen, and Observe (or Output, as a runner handler) counts lines
by sigil kind and samples the stack depth.
*/
package observability
