// Package extension maintains the registry used to classify repository
// files into document kinds before the kind-specific loaders take over.
package extension
