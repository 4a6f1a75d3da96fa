package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/ipma-weather/internal/domain"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

var publishedAt = time.Date(2023, 11, 15, 10, 0, 0, 0, time.UTC)

func testWriter(fw *fakeWriter) *Writer {
	return &Writer{
		writer: fw,
		clock:  clockwork.NewFakeClockAt(publishedAt),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSerializeToMessage(t *testing.T) {
	result := domain.ForecastResult{Location: "Braga", Date: "2023-11-15", WeatherType: "Clear sky"}

	msg, err := serializeToMessage("Braga|2023-11-15", KindForecast, result, publishedAt)
	require.NoError(t, err)

	assert.Equal(t, []byte("Braga|2023-11-15"), msg.Key)
	assert.Contains(t, string(msg.Value), `"weatherType":"Clear sky"`)
	assert.Contains(t, string(msg.Value), `"precipitationProbability":null`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "kind", msg.Headers[0].Key)
	assert.Equal(t, []byte(KindForecast), msg.Headers[0].Value)
	assert.Equal(t, "published_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(publishedAt.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestWriter_PublishObservations(t *testing.T) {
	fw := &fakeWriter{}
	w := testWriter(fw)

	err := w.PublishObservations(context.Background(), []domain.WeatherResult{
		{Location: "Braga", Temperature: "14.2"},
		{Location: "Faro", Temperature: "19.0"},
	})
	require.NoError(t, err)

	require.Len(t, fw.msgs, 2)
	assert.Equal(t, []byte("Braga"), fw.msgs[0].Key)
	assert.Equal(t, []byte("Faro"), fw.msgs[1].Key)
	assert.JSONEq(t, `{"location":"Braga","temperature":"14.2","weatherType":"","humidity":"","windDirection":"","windIntensity":"","rainIntensity":null,"pressure":"","sunrise":null,"sunset":null,"updatedAt":""}`, string(fw.msgs[0].Value))
}

func TestWriter_PublishForecast_Keys(t *testing.T) {
	fw := &fakeWriter{}
	w := testWriter(fw)

	err := w.PublishForecast(context.Background(), []domain.ForecastResult{
		{Location: "Braga", Date: "2023-11-15"},
		{Location: "Braga", Date: "2023-11-16"},
	})
	require.NoError(t, err)

	require.Len(t, fw.msgs, 2)
	assert.Equal(t, []byte("Braga|2023-11-16"), fw.msgs[1].Key)
	assert.Equal(t, []byte(KindForecast), fw.msgs[1].Headers[0].Value)
}

func TestWriter_EmptySnapshotSkipsWrite(t *testing.T) {
	fw := &fakeWriter{err: errors.New("should not be called")}
	w := testWriter(fw)

	require.NoError(t, w.PublishObservations(context.Background(), nil))
	assert.Empty(t, fw.msgs)
}

func TestWriter_WriteError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("leader not available")}
	w := testWriter(fw)

	err := w.PublishObservations(context.Background(), []domain.WeatherResult{{Location: "Braga"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish observation snapshot")
	assert.Contains(t, err.Error(), "leader not available")
}

func TestWriter_Close(t *testing.T) {
	fw := &fakeWriter{}
	require.NoError(t, testWriter(fw).Close())
	assert.True(t, fw.closed)
}
