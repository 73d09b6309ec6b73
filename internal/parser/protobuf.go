package parser

import (
	"github.com/cockroachdb/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

// ProtobufParser decodes messages of one type from a compiled descriptor set
// (protoc --descriptor_set_out --include_imports).
type ProtobufParser struct {
	desc protoreflect.MessageDescriptor
}

func NewProtobufParser(descriptorSet []byte, messageName string) (*ProtobufParser, error) {
	if messageName == "" {
		return nil, errors.Newf("property %s is required for protobuf sources", PropProtoMessage)
	}

	var fds descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(descriptorSet, &fds); err != nil {
		return nil, errors.Wrap(err, "decode descriptor set")
	}
	files, err := protodesc.NewFiles(&fds)
	if err != nil {
		return nil, errors.Wrap(err, "build descriptor registry")
	}

	d, err := files.FindDescriptorByName(protoreflect.FullName(messageName))
	if err != nil {
		return nil, errors.Wrapf(err, "find message %s", messageName)
	}
	md, ok := d.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, errors.Newf("%s is not a message", messageName)
	}

	return &ProtobufParser{desc: md}, nil
}

func (p *ProtobufParser) Parse(payload []byte) ([]Event, error) {
	msg := dynamicpb.NewMessage(p.desc)
	if err := proto.Unmarshal(payload, msg); err != nil {
		return nil, errors.Wrapf(err, "decode %s", p.desc.FullName())
	}
	return []Event{{Op: OpInsert, Fields: messageFields(msg)}}, nil
}

func (p *ProtobufParser) Fields() []Field {
	fds := p.desc.Fields()
	out := make([]Field, 0, fds.Len())
	for i := range fds.Len() {
		fd := fds.Get(i)
		kind := protoKind(fd)
		if fd.IsList() {
			kind = types.KindList
		}
		out = append(out, Field{Name: string(fd.Name()), Kind: kind})
	}
	return out
}

func messageFields(msg protoreflect.Message) map[string]any {
	fds := msg.Descriptor().Fields()
	fields := make(map[string]any, fds.Len())
	for i := range fds.Len() {
		fd := fds.Get(i)
		name := string(fd.Name())
		switch {
		case fd.IsList():
			l := msg.Get(fd).List()
			items := make([]any, l.Len())
			for j := range l.Len() {
				items[j] = protoValue(fd, l.Get(j))
			}
			fields[name] = items
		case fd.IsMap():
			m := map[string]any{}
			msg.Get(fd).Map().Range(func(k protoreflect.MapKey, v protoreflect.Value) bool {
				m[k.String()] = protoValue(fd.MapValue(), v)
				return true
			})
			fields[name] = m
		case fd.Message() != nil && !msg.Has(fd):
			fields[name] = nil
		default:
			fields[name] = protoValue(fd, msg.Get(fd))
		}
	}
	return fields
}

func protoValue(fd protoreflect.FieldDescriptor, v protoreflect.Value) any {
	switch fd.Kind() {
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return messageFields(v.Message())
	case protoreflect.EnumKind:
		if ev := fd.Enum().Values().ByNumber(v.Enum()); ev != nil {
			return string(ev.Name())
		}
		return int32(v.Enum())
	default:
		return v.Interface()
	}
}

func protoKind(fd protoreflect.FieldDescriptor) types.Kind {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return types.KindBoolean
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return types.KindInt32
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind,
		protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return types.KindInt64
	case protoreflect.FloatKind:
		return types.KindFloat32
	case protoreflect.DoubleKind:
		return types.KindFloat64
	case protoreflect.StringKind, protoreflect.EnumKind:
		return types.KindVarchar
	case protoreflect.BytesKind:
		return types.KindBytea
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return types.KindStruct
	default:
		return types.KindInvalid
	}
}
