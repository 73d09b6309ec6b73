package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/sourcedesc/internal/srcerr"
)

func TestFactory_Create(t *testing.T) {
	t.Parallel()

	protoPath := writeSchemaFile(t, "ts.pb", timestampDescriptorSet(t))
	avroPath := writeSchemaFile(t, "order.avsc", []byte(orderSchema))

	tests := []struct {
		name     string
		format   Format
		props    map[string]string
		location string
		check    func(t *testing.T, p Parser)
		marker   error
	}{
		{
			name:   "json",
			format: FormatJSON,
			check: func(t *testing.T, p Parser) {
				t.Helper()
				assert.IsType(t, &JSONParser{}, p)
			},
		},
		{
			name:   "debezium json",
			format: FormatDebeziumJSON,
			check: func(t *testing.T, p Parser) {
				t.Helper()
				assert.IsType(t, &DebeziumJSONParser{}, p)
			},
		},
		{
			name:     "protobuf from path",
			format:   FormatProtobuf,
			props:    map[string]string{PropProtoMessage: "google.protobuf.Timestamp"},
			location: protoPath,
			check: func(t *testing.T, p Parser) {
				t.Helper()
				assert.IsType(t, &ProtobufParser{}, p)
			},
		},
		{
			name:     "protobuf from file url",
			format:   FormatProtobuf,
			props:    map[string]string{PropProtoMessage: "google.protobuf.Timestamp"},
			location: "file://" + protoPath,
			check: func(t *testing.T, p Parser) {
				t.Helper()
				assert.IsType(t, &ProtobufParser{}, p)
			},
		},
		{
			name:     "protobuf without message property",
			format:   FormatProtobuf,
			location: protoPath,
			marker:   srcerr.ErrConnector,
		},
		{
			name:     "protobuf missing file",
			format:   FormatProtobuf,
			props:    map[string]string{PropProtoMessage: "google.protobuf.Timestamp"},
			location: protoPath + ".missing",
			marker:   srcerr.ErrConnector,
		},
		{
			name:     "avro from path",
			format:   FormatAvro,
			location: avroPath,
			check: func(t *testing.T, p Parser) {
				t.Helper()
				assert.IsType(t, &AvroParser{}, p)
			},
		},
		{
			name:   "avro without location",
			format: FormatAvro,
			marker: srcerr.ErrConnector,
		},
		{
			name:   "invalid format",
			format: FormatInvalid,
			marker: srcerr.ErrInternal,
		},
	}

	f := NewFactory()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := f.Create(context.Background(), tt.format, tt.props, tt.location)
			if tt.marker != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.marker), "got %v", err)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestFactory_AvroSchemaRegistry(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/subjects/orders-value/versions/latest" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.schemaregistry.v1+json")
		_, _ = fmt.Fprintf(w, `{"subject":"orders-value","version":1,"id":1,"schema":%s}`, strconv.Quote(orderSchema))
	}))
	defer srv.Close()

	f := NewFactoryWithClient(srv.Client())
	props := map[string]string{PropUseSchemaRegistry: "true", PropTopic: "orders"}

	p, err := f.Create(context.Background(), FormatAvro, props, srv.URL+"/")
	require.NoError(t, err)

	framed := append([]byte{0, 0, 0, 0, 1}, encodeOrder(t)...)
	events, err := p.Parse(framed)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "bolt", events[0].Fields["item"])

	props[PropTopic] = "payments"
	_, err = f.Create(context.Background(), FormatAvro, props, srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, srcerr.ErrConnector))
	assert.ErrorContains(t, err, "status 404")
}

func TestFactory_CanceledContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(orderSchema))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFactoryWithClient(srv.Client()).Create(ctx, FormatAvro, nil, srv.URL+"/order.avsc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
