// Package connector extracts typed connector configurations from the flat
// property maps carried by stream source catalogs.
package connector

import (
	"reflect"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"
)

// PropConnector selects the connector implementation.
const PropConnector = "connector"

const (
	Kafka       = "kafka"
	Kinesis     = "kinesis"
	MySQLCDC    = "mysql-cdc"
	PostgresCDC = "postgres-cdc"
)

// Config is the validated configuration of one connector.
type Config interface {
	Connector() string
	Validate() error
}

// ExtractorFunc adapts a function to the extractor interface used by the
// source builder.
type ExtractorFunc func(props map[string]string) (Config, error)

func (f ExtractorFunc) Extract(props map[string]string) (Config, error) {
	return f(props)
}

var connectors = map[string]func() Config{
	Kafka:       func() Config { return &KafkaConfig{} },
	Kinesis:     func() Config { return &KinesisConfig{} },
	MySQLCDC:    func() Config { return &MySQLCDCConfig{} },
	PostgresCDC: func() Config { return &PostgresCDCConfig{} },
}

// Names returns the supported connector names, sorted.
func Names() []string {
	names := make([]string, 0, len(connectors))
	for name := range connectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extract decodes and validates the connector configuration selected by the
// "connector" property.
func Extract(props map[string]string) (Config, error) {
	name := strings.ToLower(strings.TrimSpace(props[PropConnector]))
	if name == "" {
		return nil, errors.Newf("property %q is required", PropConnector)
	}
	newConfig, ok := connectors[name]
	if !ok {
		return nil, errors.WithHintf(
			errors.Newf("unsupported connector %q", name),
			"supported connectors: %s", strings.Join(Names(), ", "))
	}

	cfg := newConfig()
	if err := decode(props, cfg); err != nil {
		return nil, errors.Wrapf(err, "decode %s properties", name)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s properties", name)
	}
	return cfg, nil
}

func decode(props map[string]string, out any) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "prop",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return d.Decode(props)
}

// splitList splits a comma separated property, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Properties lists the property keys understood by the named connector, in
// declaration order.
func Properties(name string) ([]string, bool) {
	newConfig, ok := connectors[name]
	if !ok {
		return nil, false
	}
	t := reflect.TypeOf(newConfig()).Elem()
	keys := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		if tag := t.Field(i).Tag.Get("prop"); tag != "" {
			keys = append(keys, tag)
		}
	}
	return keys, true
}
