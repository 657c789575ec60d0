package types

import "fmt"

// ToxicType is the type tag of a toxic.
// Toxiproxy supports more types than the ones below, but these are the ones toximcp can create.
type ToxicType string

const (
	ToxicTypeLatency   ToxicType = "latency"
	ToxicTypeBandwidth ToxicType = "bandwidth"
	ToxicTypeTimeout   ToxicType = "timeout"
)

// StreamDirection is the direction of traffic a toxic applies to.
type StreamDirection string

const (
	StreamUpstream   StreamDirection = "upstream"
	StreamDownstream StreamDirection = "downstream"
)

// Attributes holds the type-specific settings of a toxic,
// eg- "latency" and "jitter" for a latency toxic.
type Attributes map[string]any

// Toxic represents a fault-injection rule attached to a proxy.
type Toxic struct {
	// Name is unique only within the context of its proxy.
	Name   string `json:"name"`
	Type   string `json:"type"`
	Stream string `json:"stream,omitempty"`

	// Toxicity is the probability (0.0 to 1.0) of the toxic being applied to a connection.
	Toxicity float64 `json:"toxicity"`

	Attributes Attributes `json:"attributes"`
}

// ValidateStreamDirection validates the input string and returns the corresponding StreamDirection.
// If the input is empty, it returns the default StreamDownstream.
func ValidateStreamDirection(input string) (StreamDirection, error) {
	switch input {
	case string(StreamUpstream):
		return StreamUpstream, nil
	case string(StreamDownstream), "":
		return StreamDownstream, nil
	default:
		return "", fmt.Errorf(
			"unsupported direction: %s (acceptable values: '%s', '%s')",
			input, StreamUpstream, StreamDownstream,
		)
	}
}

// ValidateTestType validates the input string and returns the corresponding TestType.
// If the input is empty, it returns the default TestTypeDatabase.
func ValidateTestType(input string) (TestType, error) {
	switch input {
	case string(TestTypeDatabase), "":
		return TestTypeDatabase, nil
	case string(TestTypeRabbitMQ):
		return TestTypeRabbitMQ, nil
	case string(TestTypeHTTP):
		return TestTypeHTTP, nil
	default:
		return "", fmt.Errorf(
			"unsupported test type: %s (acceptable values: '%s', '%s', '%s')",
			input, TestTypeDatabase, TestTypeRabbitMQ, TestTypeHTTP,
		)
	}
}
