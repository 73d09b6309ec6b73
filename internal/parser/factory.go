package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"

	"github.com/alexanderjulianmartinez/sourcedesc/internal/srcerr"
)

const (
	// PropProtoMessage names the fully-qualified protobuf message of the rows.
	PropProtoMessage = "proto.message"
	// PropUseSchemaRegistry makes the schema location a Confluent schema
	// registry base URL and enables wire-format header stripping.
	PropUseSchemaRegistry = "use_schema_registry"
	// PropTopic is used to derive the registry subject "<topic>-value".
	PropTopic = "kafka.topic"

	defaultSchemaFetchTimeout = 10 * time.Second
)

// Factory constructs parsers. Construction may read a schema file or contact a
// schema registry, so it honours ctx.
type Factory struct {
	client *http.Client
}

func NewFactory() *Factory {
	return &Factory{client: &http.Client{Timeout: defaultSchemaFetchTimeout}}
}

// NewFactoryWithClient uses client for schema locations served over HTTP.
func NewFactoryWithClient(client *http.Client) *Factory {
	return &Factory{client: client}
}

// Create builds the parser for format. Failures are connector errors.
func (f *Factory) Create(ctx context.Context, format Format, props map[string]string, schemaLocation string) (Parser, error) {
	switch format {
	case FormatJSON:
		return NewJSONParser(), nil
	case FormatDebeziumJSON:
		return NewDebeziumJSONParser(), nil
	case FormatProtobuf:
		data, err := f.loadSchema(ctx, schemaLocation)
		if err != nil {
			return nil, srcerr.Connector(err)
		}
		p, err := NewProtobufParser(data, props[PropProtoMessage])
		if err != nil {
			return nil, srcerr.Connector(err)
		}
		return p, nil
	case FormatAvro:
		useRegistry := strings.EqualFold(props[PropUseSchemaRegistry], "true")
		var data []byte
		var err error
		if useRegistry {
			data, err = f.fetchRegistrySchema(ctx, schemaLocation, props[PropTopic])
		} else {
			data, err = f.loadSchema(ctx, schemaLocation)
		}
		if err != nil {
			return nil, srcerr.Connector(err)
		}
		p, err := NewAvroParser(data, useRegistry)
		if err != nil {
			return nil, srcerr.Connector(err)
		}
		return p, nil
	default:
		return nil, srcerr.Internalf("no parser for format %s", format)
	}
}

// loadSchema reads a schema from a local path, a file:// URL or an http(s) URL.
func (f *Factory) loadSchema(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, errors.New("schema location not provided")
	}

	u, err := url.Parse(location)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return f.get(ctx, location)
		case "file":
			location = u.Path
		}
	}

	//nolint:gosec // schema locations come from the catalog, not from end users
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, errors.Wrap(err, "read schema file")
	}
	return data, nil
}

func (f *Factory) fetchRegistrySchema(ctx context.Context, baseURL, topic string) ([]byte, error) {
	if baseURL == "" {
		return nil, errors.New("schema registry url not provided")
	}
	if topic == "" {
		return nil, errors.Newf("property %s is required with %s", PropTopic, PropUseSchemaRegistry)
	}

	endpoint := fmt.Sprintf("%s/subjects/%s-value/versions/latest",
		strings.TrimSuffix(baseURL, "/"), url.PathEscape(topic))
	body, err := f.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	schema := gjson.GetBytes(body, "schema")
	if !schema.Exists() {
		return nil, errors.New("schema registry response has no schema field")
	}
	return []byte(schema.String()), nil
}

func (f *Factory) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build schema request")
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch schema")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("fetch schema %s: status %d", endpoint, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read schema response")
	}
	return data, nil
}
