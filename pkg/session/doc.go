/*
Package session serialises conversation turns and persists sessions between them.

The order desk assumes one in-flight call per session. The Manager enforces that with a
reference-counted mutex per session ID and, for multi-replica deployments, an optional
distributed lock held around the whole load, handle, save cycle.
*/
package session
