// Package model defines the flow-log record and the value types shared by
// the query engine, the store, and the HTTP API.
package model

// TimeLayout is the canonical layout for every timestamp the engine stores
// or renders. Records are persisted as UTC wall-clock strings in this layout;
// lexicographic order of such strings equals chronological order, which the
// range predicates and the pruning comparison rely on.
const TimeLayout = "2006-01-02 15:04:05"

// Event types emitted by the firewall. Only Destroy events carry final
// traffic counters; aggregation counts those exclusively.
const (
	EventTypeCreate  = "Create"
	EventTypeDestroy = "Destroy"
)

// LogRecord is one network flow event (connection creation or teardown).
// Field names follow the fns_logs column set.
type LogRecord struct {
	ID                int64  `json:"id" yaml:"id"`
	ReceivedTimestamp string `json:"received_timestamp" yaml:"received_timestamp"`
	Hostname          string `json:"hostname" yaml:"hostname"`
	OS                string `json:"os" yaml:"os"`
	EventTimestamp    string `json:"event_timestamp" yaml:"event_timestamp"`
	RuleUUID          string `json:"rule_uuid" yaml:"rule_uuid"`
	RuleName          string `json:"rule_name" yaml:"rule_name"`
	EventType         string `json:"event_type" yaml:"event_type"`
	Source            string `json:"source" yaml:"source"`
	Destination       string `json:"destination" yaml:"destination"`
	Protocol          string `json:"protocol" yaml:"protocol"`
	SourcePort        int    `json:"source_port" yaml:"source_port"`
	DestinationPort   int    `json:"destination_port" yaml:"destination_port"`
	Action            string `json:"action" yaml:"action"`
	Direction         string `json:"direction" yaml:"direction"`
	OriginatorPackets int64  `json:"originator_packets" yaml:"originator_packets"`
	OriginatorBytes   int64  `json:"originator_bytes" yaml:"originator_bytes"`
	ReplyPackets      int64  `json:"reply_packets" yaml:"reply_packets"`
	ReplyBytes        int64  `json:"reply_bytes" yaml:"reply_bytes"`
	Description       string `json:"description,omitempty" yaml:"description,omitempty"`
}

// FilterOptions holds the distinct values currently present for the
// dropdown-backed filter columns, each ascending-sorted by the store.
type FilterOptions struct {
	Hostnames []string `json:"hostnames"`
	Actions   []string `json:"actions"`
	Protocols []string `json:"protocols"`
	RuleNames []string `json:"rule_names"`
}

// TrafficGroup is one row of a top-talkers aggregation: the grouping key
// (IP, port, or rule name depending on the dimension), the summed
// originator+reply bytes, and the number of closed connections.
//
// Key keeps the store's native type (string for IPs and rule names, integer
// for ports). Groups with equal TotalBytes have no defined relative order.
type TrafficGroup struct {
	Key             any   `json:"key"`
	TotalBytes      int64 `json:"total_bytes"`
	ConnectionCount int64 `json:"connection_count"`
}
