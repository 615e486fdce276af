/*
Package observability provides tools for monitoring the remapping engine.

It turns lifecycle events into Prometheus metrics and structured log lines. Both are
exposed as domain.LifecycleHooks, so they can be merged and passed to remap.WithLifecycleHooks.
*/
package observability
