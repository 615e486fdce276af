// Package runtime implements the interval transformer, the pipeline evaluator and
// the minimum selector. Everything here is a pure function over frozen stage tables;
// the only mutable state is the worklist owned by a single Evaluate call.
package runtime
