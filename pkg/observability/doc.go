/*
Package observability turns flow lifecycle events into logs and Prometheus
metrics.

Both are exposed as domain.LifecycleHooks and can be merged:

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	hooks := observability.LogHooks(logger).Merge(metrics.Hooks())
	runner := runtime.NewRunner(flow, handlers, prompts, runtime.WithLifecycleHooks(hooks))
*/
package observability
