/*
Package observability provides order desk observers: Prometheus metrics, a structured audit
log, and an aggregator fanning notifications out to several observers.
*/
package observability
