// Package model contains the in-memory representation of the declarative
// documents the toolkit understands: BPMN 2.0 process definitions and the
// document envelope used by the registry stores.
//
// A process is typically loaded from a BPMN XML document into the structures
// defined here; the `graph` sub-package provides a flow-graph view over the
// same data so that structural properties (connectivity, cycles, linearity)
// can be queried without touching the XML layer.
package model
