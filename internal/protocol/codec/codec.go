package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/palemoky/scout/internal/protocol"
)

const (
	NameJSON     = "json"
	NameProtobuf = "protobuf"

	envelopeType    = "type"
	envelopePayload = "payload"
)

var ErrUnknownCodec = errors.New("unknown codec")

// Codec 消息帧编解码器
type Codec interface {
	Name() string
	// Binary 为 true 时使用 websocket 二进制帧
	Binary() bool
	Encode(msg *protocol.Message) ([]byte, error)
	Decode(data []byte) (*protocol.Message, error)
}

// New 按名称返回编解码器，空名称使用 JSON
func New(name string) (Codec, error) {
	switch name {
	case "", NameJSON:
		return JSONCodec{}, nil
	case NameProtobuf:
		return ProtoCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// JSONCodec 文本帧 JSON 信封
type JSONCodec struct{}

func (JSONCodec) Name() string { return NameJSON }
func (JSONCodec) Binary() bool { return false }

// Encode 将消息编码为 JSON 字节
func (JSONCodec) Encode(msg *protocol.Message) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(msg); err != nil {
		return nil, err
	}
	return bytes.Clone(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// Decode 从 JSON 字节解码消息
// 注意: 使用完毕后可调用 PutMessage 归还对象到池
func (JSONCodec) Decode(data []byte) (*protocol.Message, error) {
	msg := GetMessage()
	if err := json.Unmarshal(data, msg); err != nil {
		PutMessage(msg)
		return nil, err
	}
	if msg.Type == "" {
		PutMessage(msg)
		return nil, errors.New("消息缺少 type 字段")
	}
	return msg, nil
}

// ProtoCodec 二进制帧 protobuf 信封
//
// 信封是一个 google.protobuf.Struct: {"type": string, "payload": any}，
// 因此不需要额外的 .proto 生成代码，payload 仍沿用 JSON 结构。
type ProtoCodec struct{}

func (ProtoCodec) Name() string { return NameProtobuf }
func (ProtoCodec) Binary() bool { return true }

// Encode 将消息编码为 Protobuf 字节
func (ProtoCodec) Encode(msg *protocol.Message) ([]byte, error) {
	fields := map[string]any{envelopeType: string(msg.Type)}
	if len(msg.Payload) > 0 {
		var payload any
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, fmt.Errorf("解析 payload 失败: %w", err)
		}
		fields[envelopePayload] = payload
	}

	env, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("构建信封失败: %w", err)
	}
	return proto.Marshal(env)
}

// Decode 从 Protobuf 字节解码消息
func (ProtoCodec) Decode(data []byte) (*protocol.Message, error) {
	env := GetEnvelope()
	defer PutEnvelope(env)

	if err := proto.Unmarshal(data, env); err != nil {
		return nil, err
	}

	msgType := env.GetFields()[envelopeType].GetStringValue()
	if msgType == "" {
		return nil, errors.New("消息缺少 type 字段")
	}

	msg := GetMessage()
	msg.Type = protocol.MessageType(msgType)
	if payload, ok := env.GetFields()[envelopePayload]; ok {
		raw, err := protojson.Marshal(payload)
		if err != nil {
			PutMessage(msg)
			return nil, err
		}
		msg.Payload = raw
	}
	return msg, nil
}
