package store

import (
	"context"
	"fmt"

	"github.com/netglean/fnslog/internal/model"
)

const insertSQL = `
	INSERT INTO fns_logs
	(received_timestamp, hostname, os, event_timestamp, rule_uuid, rule_name,
	 event_type, source, destination, protocol, source_port, destination_port,
	 action, direction, originator_packets, originator_bytes, reply_packets,
	 reply_bytes, description)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Insert appends one flow record. The identity column is store-assigned.
// Ingestion normally happens outside this engine (rsyslog writes the table
// directly); Insert exists for embedders and test fixtures.
func (s *Store) Insert(ctx context.Context, rec model.LogRecord) error {
	_, err := s.db.ExecContext(ctx, s.d.rebind(insertSQL),
		rec.ReceivedTimestamp,
		rec.Hostname,
		rec.OS,
		rec.EventTimestamp,
		rec.RuleUUID,
		rec.RuleName,
		rec.EventType,
		rec.Source,
		rec.Destination,
		rec.Protocol,
		rec.SourcePort,
		rec.DestinationPort,
		rec.Action,
		rec.Direction,
		rec.OriginatorPackets,
		rec.OriginatorBytes,
		rec.ReplyPackets,
		rec.ReplyBytes,
		rec.Description,
	)
	if err != nil {
		return fmt.Errorf("insert log record: %w", err)
	}
	return nil
}
