package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "skyparty/pkg/platform/audit"
)

type recordingProducer struct {
	records []*kgo.Record
	err     error
	closed  bool
}

func (p *recordingProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	p.records = append(p.records, rs...)
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		results = append(results, kgo.ProduceResult{Record: r, Err: p.err})
	}
	return results
}

func (p *recordingProducer) Close() { p.closed = true }

func TestSink_Append(t *testing.T) {
	producer := &recordingProducer{}
	sink := NewWithProducer(producer, "skyparty.audit")

	ts := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	err := sink.Append(context.Background(), audit.Event{
		ID:        "evt-1",
		Timestamp: ts,
		Subject:   "ada@example.com",
		Action:    string(audit.EventApplicantLocked),
		Reason:    "4 failed attempts",
	})
	require.NoError(t, err)
	require.Len(t, producer.records, 1)

	rec := producer.records[0]
	assert.Equal(t, "skyparty.audit", rec.Topic)
	assert.Equal(t, []byte("ada@example.com"), rec.Key)
	assert.Equal(t, "category", rec.Headers[0].Key)
	assert.Equal(t, []byte("compliance"), rec.Headers[0].Value)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Value, &body))
	assert.Equal(t, "applicant_locked", body["action"])
	assert.Equal(t, "4 failed attempts", body["reason"])
	assert.Equal(t, "2025-03-01T09:30:00Z", body["timestamp"])

	sink.Close()
	assert.True(t, producer.closed)
}

func TestSink_ProduceError(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker unreachable")}
	sink := NewWithProducer(producer, "skyparty.audit")

	err := sink.Append(context.Background(), audit.Event{Subject: "ada@example.com", Action: "x"})
	assert.ErrorContains(t, err, "broker unreachable")
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, "topic")
	assert.Error(t, err)
	_, err = New([]string{"localhost:9092"}, "")
	assert.Error(t, err)
}
