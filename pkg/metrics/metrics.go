package metrics

import (
	"fmt"
	"sync"
	"time"
)

// Metrics holds application counters. Everything here is in-process;
// the /metrics endpoint exposes it in Prometheus text format.
type Metrics struct {
	mu sync.RWMutex

	CallsInitiated   int64
	CallsFailed      int64
	SessionsStarted  int64
	SessionsEnded    int64
	SessionFailures  int64
	MediaFramesIn    int64
	MediaFramesOut   int64
	EndpointRequests map[string]int64
	EndpointErrors   map[string]int64

	StartTime time.Time
}

var globalMetrics = &Metrics{
	EndpointRequests: make(map[string]int64),
	EndpointErrors:   make(map[string]int64),
	StartTime:        time.Now(),
}

// RecordRequest records an HTTP request outcome per endpoint
func RecordRequest(endpoint string, success bool) {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()

	globalMetrics.EndpointRequests[endpoint]++
	if !success {
		globalMetrics.EndpointErrors[endpoint]++
	}
}

// RecordCallInitiated counts an accepted outbound call request
func RecordCallInitiated() {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()
	globalMetrics.CallsInitiated++
}

// RecordCallFailed counts an outbound call the provider rejected
func RecordCallFailed() {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()
	globalMetrics.CallsFailed++
}

// RecordSessionStarted counts a media stream session start
func RecordSessionStarted() {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()
	globalMetrics.SessionsStarted++
}

// RecordSessionEnded counts a media stream session end; failed marks
// sessions that ended with an error rather than a normal hangup
func RecordSessionEnded(failed bool) {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()
	globalMetrics.SessionsEnded++
	if failed {
		globalMetrics.SessionFailures++
	}
}

// RecordMediaFrames counts audio frames relayed in each direction
func RecordMediaFrames(inbound, outbound int64) {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()
	globalMetrics.MediaFramesIn += inbound
	globalMetrics.MediaFramesOut += outbound
}

// Snapshot returns current metrics as a map for the JSON endpoint
func Snapshot() map[string]interface{} {
	globalMetrics.mu.RLock()
	defer globalMetrics.mu.RUnlock()

	endpointRequests := make(map[string]int64, len(globalMetrics.EndpointRequests))
	for k, v := range globalMetrics.EndpointRequests {
		endpointRequests[k] = v
	}
	endpointErrors := make(map[string]int64, len(globalMetrics.EndpointErrors))
	for k, v := range globalMetrics.EndpointErrors {
		endpointErrors[k] = v
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(globalMetrics.StartTime).Seconds(),
		"calls": map[string]int64{
			"initiated": globalMetrics.CallsInitiated,
			"failed":    globalMetrics.CallsFailed,
		},
		"sessions": map[string]int64{
			"started":  globalMetrics.SessionsStarted,
			"ended":    globalMetrics.SessionsEnded,
			"failures": globalMetrics.SessionFailures,
		},
		"media_frames": map[string]int64{
			"inbound":  globalMetrics.MediaFramesIn,
			"outbound": globalMetrics.MediaFramesOut,
		},
		"endpoints": map[string]interface{}{
			"requests": endpointRequests,
			"errors":   endpointErrors,
		},
	}
}

// Prometheus returns metrics in Prometheus text exposition format
func Prometheus() string {
	globalMetrics.mu.RLock()
	defer globalMetrics.mu.RUnlock()

	var output string

	output += "# HELP voice_uptime_seconds Service uptime in seconds\n"
	output += "# TYPE voice_uptime_seconds gauge\n"
	output += fmt.Sprintf("voice_uptime_seconds %.2f\n", time.Since(globalMetrics.StartTime).Seconds())

	output += "# HELP voice_calls_total Outbound calls by outcome\n"
	output += "# TYPE voice_calls_total counter\n"
	output += fmt.Sprintf("voice_calls_total{outcome=\"initiated\"} %d\n", globalMetrics.CallsInitiated)
	output += fmt.Sprintf("voice_calls_total{outcome=\"failed\"} %d\n", globalMetrics.CallsFailed)

	output += "# HELP voice_sessions_total Media stream sessions\n"
	output += "# TYPE voice_sessions_total counter\n"
	output += fmt.Sprintf("voice_sessions_total{state=\"started\"} %d\n", globalMetrics.SessionsStarted)
	output += fmt.Sprintf("voice_sessions_total{state=\"ended\"} %d\n", globalMetrics.SessionsEnded)
	output += fmt.Sprintf("voice_sessions_total{state=\"failed\"} %d\n", globalMetrics.SessionFailures)

	output += "# HELP voice_media_frames_total Audio frames relayed per direction\n"
	output += "# TYPE voice_media_frames_total counter\n"
	output += fmt.Sprintf("voice_media_frames_total{direction=\"inbound\"} %d\n", globalMetrics.MediaFramesIn)
	output += fmt.Sprintf("voice_media_frames_total{direction=\"outbound\"} %d\n", globalMetrics.MediaFramesOut)

	output += "# HELP voice_endpoint_requests_total Total requests per endpoint\n"
	output += "# TYPE voice_endpoint_requests_total counter\n"
	for endpoint, count := range globalMetrics.EndpointRequests {
		output += fmt.Sprintf("voice_endpoint_requests_total{endpoint=\"%s\"} %d\n", endpoint, count)
	}

	output += "# HELP voice_endpoint_errors_total Total errors per endpoint\n"
	output += "# TYPE voice_endpoint_errors_total counter\n"
	for endpoint, count := range globalMetrics.EndpointErrors {
		output += fmt.Sprintf("voice_endpoint_errors_total{endpoint=\"%s\"} %d\n", endpoint, count)
	}

	return output
}
