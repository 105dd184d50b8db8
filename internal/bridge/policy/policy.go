// Package policy turns source chain events into bundles and destination chain
// events back into bundles.
package policy

import "errors"

var (
	// ErrMalformedLog means a source event does not have the layout the bridge contract emits.
	ErrMalformedLog = errors.New("malformed source log")
	// ErrProtocolViolation means a destination event does not have the expected topic count.
	ErrProtocolViolation = errors.New("destination protocol violation")
)

const (
	DefaultBundleSize = 20

	sourceDataLength      = 32
	sourceMinTopics       = 3
	processedTopicCount   = 3
	distributedTopicCount = 4
)
