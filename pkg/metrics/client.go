package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type (
	// OTELClient is a Client backed by an OTEL MeterProvider. Instruments are
	// registered lazily on first use, keyed by metric name.
	OTELClient struct {
		provider *sdkmetric.MeterProvider
		meter    metric.Meter

		mu         sync.Mutex
		counters   map[string]metric.Int64Counter
		histograms map[string]metric.Float64Histogram
	}
)

func NewOTELClient(provider *sdkmetric.MeterProvider, scope string) *OTELClient {
	return &OTELClient{
		provider:   provider,
		meter:      provider.Meter(scope),
		counters:   make(map[string]metric.Int64Counter),
		histograms: make(map[string]metric.Float64Histogram),
	}
}

// Inc records value against key. Integer values increment a counter,
// time.Duration values record seconds on a histogram.
func (c *OTELClient) Inc(ctx context.Context, key string, value any, attributes ...attribute.KeyValue) {
	switch v := value.(type) {
	case time.Duration:
		histogram, err := c.histogram(key)
		if err != nil {
			return
		}
		histogram.Record(ctx, v.Seconds(), metric.WithAttributes(attributes...))
	case int:
		c.count(ctx, key, int64(v), attributes...)
	case int64:
		c.count(ctx, key, v, attributes...)
	}
}

func (c *OTELClient) Shutdown(ctx context.Context) error {
	return c.provider.Shutdown(ctx)
}

func (c *OTELClient) count(ctx context.Context, key string, value int64, attributes ...attribute.KeyValue) {
	counter, err := c.counter(key)
	if err != nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attributes...))
}

func (c *OTELClient) counter(key string) (metric.Int64Counter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, ok := c.counters[key]; ok {
		return counter, nil
	}

	counter, err := RegisterInt64Counter(c.meter, Descriptor{Unit: "1"}, key)
	if err != nil {
		return nil, err
	}
	c.counters[key] = counter

	return counter, nil
}

func (c *OTELClient) histogram(key string) (metric.Float64Histogram, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if histogram, ok := c.histograms[key]; ok {
		return histogram, nil
	}

	histogram, err := RegisterFloat64Histogram(c.meter, Descriptor{Unit: "s"}, key)
	if err != nil {
		return nil, err
	}
	c.histograms[key] = histogram

	return histogram, nil
}
