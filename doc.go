/*
Package changeset implements fixed-size recording and replay of field-level
changes to schema-backed record types. The heavy lifting happens in code
generated by changesetgen (see cmd/changesetgen); this package holds the
schema-independent runtime the generated artifacts build on.

For every record type, the generator emits:

1. A field enum identifying the record's fields in declaration order.

2. A change value, a comparable tagged union carrying one field's new value
(or, for a nested field, a child change value). Change values cannot be
constructed outside generated code; they only come out of store cursors.

3. A setter interface with one method per field, implemented by the record
type itself and by every store, so a drained batch can be applied to either.

4. Three change stores:

  - an optional-slot store (one slot per field, last write wins, iterated
    in field declaration order);

  - a single-write log store (first write per field wins, later writes are
    silently discarded, iterated in first-write order);

  - a multi-write log store (first-write order is kept, but each rewrite
    replaces the logged value in place).

5. Cursors over each store. Cursors are plain values: copying one forks the
iteration, and both copies advance independently. No store operation, cursor
step, or apply can fail at runtime.

# Batch protocol

Stores are meant for single-threaded two-phase batching: during the record
phase, code paths invoke setter methods on a store; during the drain phase,
the owner walks Changes or Seq (or calls ApplyTo) and then calls Reset to
arm the store for the next batch. The package contains no locking; callers
that need concurrency must provide their own.

# Nested records

A record field whose type is another generated record embeds that record's
store inside the parent store. The parent logs the nested field once, at
the moment the child store first becomes non-empty, and iteration expands
the child's changes contiguously at that position. Stores of log flavors
must be created with their New constructors, which wire up the child
notification links.

# Wire format

Change batches encode to msgpack as a flat array of [code, kind, value]
triples; a nested change nests another triple in its value position.
Decoding never materializes change values: decoded leaves are applied
straight to a setter, which keeps change construction exclusive to cursors.
*/
package changeset
