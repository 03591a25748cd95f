package metrics

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	namespace             = "MAGDA/Harmony"
	httpStatusServerError = 500
	putTimeout            = 5 * time.Second
)

// Client publishes request and engine metrics to CloudWatch. Outside
// production it is a no-op.
type Client struct {
	client      *cloudwatch.Client
	enabled     bool
	environment string
}

// NewClient creates a CloudWatch metrics client for the given environment
func NewClient(ctx context.Context, environment string) (*Client, error) {
	if environment != "production" {
		log.Printf("📊 CloudWatch Metrics: DISABLED (environment: %s)", environment)
		return &Client{environment: environment}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to load AWS config for CloudWatch: %v", err)
		return &Client{environment: environment}, nil
	}

	log.Printf("📊 CloudWatch Metrics: ✅ ENABLED (namespace: %s)", namespace)
	return &Client{
		client:      cloudwatch.NewFromConfig(cfg),
		enabled:     true,
		environment: environment,
	}, nil
}

// Enabled reports whether metrics are sent
func (m *Client) Enabled() bool {
	return m.enabled
}

// RecordAPIRequest records one HTTP request and its latency per route
func (m *Client) RecordAPIRequest(route string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	name := "APIRequests"
	if statusCode >= httpStatusServerError {
		name = "APIErrors"
	}
	dims := m.dimensions("Route", route)
	m.publish(
		datum(name, 1, types.StandardUnitCount, dims),
		datum("APILatency", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dims),
	)
}

// RecordEngineCall implements Recorder. Calls that found nothing (no chords,
// no tab, no voicings) are also counted under EngineMisses.
func (m *Client) RecordEngineCall(_ context.Context, operation, outcome string, duration time.Duration) {
	if !m.enabled {
		return
	}

	dims := m.dimensions("Operation", operation, "Outcome", outcome)
	data := []types.MetricDatum{
		datum("EngineCalls", 1, types.StandardUnitCount, dims),
		datum("EngineLatency", float64(duration.Microseconds()), types.StandardUnitMicroseconds, dims),
	}
	if outcome == OutcomeNotFound {
		data = append(data, datum("EngineMisses", 1, types.StandardUnitCount, m.dimensions("Operation", operation)))
	}
	m.publish(data...)
}

// dimensions builds name/value pairs plus the environment dimension
func (m *Client) dimensions(pairs ...string) []types.Dimension {
	dims := make([]types.Dimension, 0, len(pairs)/2+1)
	for i := 0; i+1 < len(pairs); i += 2 {
		dims = append(dims, types.Dimension{Name: aws.String(pairs[i]), Value: aws.String(pairs[i+1])})
	}
	return append(dims, types.Dimension{Name: aws.String("Environment"), Value: aws.String(m.environment)})
}

func datum(name string, value float64, unit types.StandardUnit, dims []types.Dimension) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(time.Now()),
		Dimensions: dims,
	}
}

// publish sends data in one PutMetricData call off the request path
func (m *Client) publish(data ...types.MetricDatum) {
	if m.client == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), putTimeout)
		defer cancel()

		_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(namespace),
			MetricData: data,
		})
		if err != nil {
			log.Printf("Failed to publish %d CloudWatch metrics: %v", len(data), err)
		}
	}()
}
