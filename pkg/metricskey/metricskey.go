package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	// StatsUpstreamRequestsSucceeded is base for counter metric for successful upstream requests
	StatsUpstreamRequestsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_upstream_requests_succeeded",
		Help:         "stats_upstream_requests_succeeded provides total upstream requests succeeded",
		RequiredTags: []string{"endpoint"},
	}

	// StatsUpstreamRequestsFailed is base for counter metric for failed upstream requests
	StatsUpstreamRequestsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_upstream_requests_failed",
		Help:         "stats_upstream_requests_failed provides total upstream requests failed",
		RequiredTags: []string{"endpoint", "status"},
	}

	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_not_found",
		Help:         "stats_tool_calls_not_found provides total tool calls not found",
		RequiredTags: []string{"tool"},
	}
)

// Perf
var (
	PerfUpstreamRequest = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_upstream_request",
		Help:         "perf_upstream_request provides duration of upstream request",
		RequiredTags: []string{"endpoint"},
	}

	PerfQueueWait = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_queue_wait",
		Help:         "perf_queue_wait provides duration a task waited for admission",
		RequiredTags: []string{"queue"},
	}

	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfQueueWait,
	&PerfToolCall,
	&PerfUpstreamRequest,
	&StatsToolCallsFailed,
	&StatsToolCallsNotFound,
	&StatsToolCallsSucceeded,
	&StatsUpstreamRequestsFailed,
	&StatsUpstreamRequestsSucceeded,
}
