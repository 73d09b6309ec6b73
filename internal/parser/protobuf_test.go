package parser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

// timestampDescriptorSet returns a descriptor set holding google/protobuf/timestamp.proto.
func timestampDescriptorSet(t *testing.T) []byte {
	t.Helper()

	fds := &descriptorpb.FileDescriptorSet{
		File: []*descriptorpb.FileDescriptorProto{
			protodesc.ToFileDescriptorProto(timestamppb.File_google_protobuf_timestamp_proto),
		},
	}
	data, err := proto.Marshal(fds)
	require.NoError(t, err)
	return data
}

func writeSchemaFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestProtobufParser_Parse(t *testing.T) {
	t.Parallel()

	p, err := NewProtobufParser(timestampDescriptorSet(t), "google.protobuf.Timestamp")
	require.NoError(t, err)

	payload, err := proto.Marshal(timestamppb.New(time.Unix(1700000000, 42)))
	require.NoError(t, err)

	events, err := p.Parse(payload)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(1700000000), events[0].Fields["seconds"])
	assert.Equal(t, int32(42), events[0].Fields["nanos"])

	assert.Equal(t, []Field{
		{Name: "seconds", Kind: types.KindInt64},
		{Name: "nanos", Kind: types.KindInt32},
	}, p.Fields())

	_, err = p.Parse([]byte{0xff, 0xff})
	assert.Error(t, err)
}

func TestNewProtobufParser_Errors(t *testing.T) {
	t.Parallel()

	set := timestampDescriptorSet(t)

	_, err := NewProtobufParser(set, "")
	assert.ErrorContains(t, err, PropProtoMessage)

	_, err = NewProtobufParser(set, "google.protobuf.Missing")
	assert.Error(t, err)

	_, err = NewProtobufParser([]byte("not a descriptor set"), "google.protobuf.Timestamp")
	assert.Error(t, err)
}
