package metrics

import (
	"sort"
	"sync"
	"time"
)

const maxSamples = 1000

type Metrics struct {
	mutex           sync.RWMutex
	attempts        map[string]int64
	healthy         map[string]int64
	transportErrors map[string]int64
	latencies       map[string][]time.Duration
	statusCodes     map[string]map[int]int64
	lastAttempt     map[string]time.Time
	startTime       time.Time
}

type Snapshot struct {
	TotalAttempts int64                      `json:"total_attempts"`
	Uptime        time.Duration              `json:"uptime"`
	Endpoints     map[string]EndpointMetrics `json:"endpoints"`
}

type EndpointMetrics struct {
	Attempts        int64         `json:"attempts"`
	Healthy         int64         `json:"healthy"`
	TransportErrors int64         `json:"transport_errors"`
	LastAttempt     time.Time     `json:"last_attempt"`
	AvgLatency      time.Duration `json:"avg_latency"`
	P50Latency      time.Duration `json:"p50_latency"`
	P95Latency      time.Duration `json:"p95_latency"`
	P99Latency      time.Duration `json:"p99_latency"`
	StatusCodes     map[int]int64 `json:"status_codes"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		attempts:        make(map[string]int64),
		healthy:         make(map[string]int64),
		transportErrors: make(map[string]int64),
		latencies:       make(map[string][]time.Duration),
		statusCodes:     make(map[string]map[int]int64),
		lastAttempt:     make(map[string]time.Time),
		startTime:       time.Now(),
	}
}

func (m *Metrics) RecordProbe(event ProbeEvent) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	endpoint := event.Endpoint
	m.attempts[endpoint]++
	if event.OK {
		m.healthy[endpoint]++
	}
	if event.Timestamp.After(m.lastAttempt[endpoint]) {
		m.lastAttempt[endpoint] = event.Timestamp
	}

	m.latencies[endpoint] = append(m.latencies[endpoint], event.Elapsed)
	if len(m.latencies[endpoint]) > maxSamples {
		m.latencies[endpoint] = m.latencies[endpoint][1:]
	}

	if event.StatusCode == 0 {
		m.transportErrors[endpoint]++
		return
	}

	if m.statusCodes[endpoint] == nil {
		m.statusCodes[endpoint] = make(map[int]int64)
	}
	m.statusCodes[endpoint][event.StatusCode]++
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:    time.Since(m.startTime),
		Endpoints: make(map[string]EndpointMetrics, len(m.attempts)),
	}

	for endpoint, attempts := range m.attempts {
		snap.TotalAttempts += attempts

		em := EndpointMetrics{
			Attempts:        attempts,
			Healthy:         m.healthy[endpoint],
			TransportErrors: m.transportErrors[endpoint],
			LastAttempt:     m.lastAttempt[endpoint],
			StatusCodes:     make(map[int]int64, len(m.statusCodes[endpoint])),
		}
		for code, n := range m.statusCodes[endpoint] {
			em.StatusCodes[code] = n
		}

		durations := m.latencies[endpoint]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			em.AvgLatency = average(sorted)
			em.P50Latency = percentile(sorted, 0.50)
			em.P95Latency = percentile(sorted, 0.95)
			em.P99Latency = percentile(sorted, 0.99)
		}

		snap.Endpoints[endpoint] = em
	}

	return snap
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
