/*
Package objpath provides a structured representation for the location of an
object inside a reflected object graph.

The canonical format is a dot-separated sequence of property segments, where
container elements carry an index, e.g. `server.listeners[0].tls`. The empty
path denotes the top-level receiver.

Paths are immutable values: Child and Element return new paths and never
share backing storage with their parent.
*/
package objpath
