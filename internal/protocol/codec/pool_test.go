package codec

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/palemoky/scout/internal/protocol"
)

func TestMessagePool_GetPut(t *testing.T) {
	t.Parallel()

	msg := GetMessage()
	assert.NotNil(t, msg)

	msg.Type = "test"
	msg.Payload = []byte("data")
	PutMessage(msg)

	// Fields are reset before the message goes back to the pool
	assert.Empty(t, msg.Type)
	assert.Nil(t, msg.Payload)
}

func TestPools_PutNil(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		PutMessage(nil)
		PutEnvelope(nil)
		PutBuffer(nil)
	})
}

func TestEnvelopePool_GetPut(t *testing.T) {
	t.Parallel()

	env := GetEnvelope()
	assert.NotNil(t, env)

	env.Fields = map[string]*structpb.Value{"type": structpb.NewStringValue("ping")}
	PutEnvelope(env)

	assert.Empty(t, env.GetFields())
}

func TestBufferPool_GetPut(t *testing.T) {
	t.Parallel()

	buf := GetBuffer()
	assert.NotNil(t, buf)

	buf.WriteString("test data")
	assert.Equal(t, 9, buf.Len())

	PutBuffer(buf)
	assert.Equal(t, 0, buf.Len())
}

func TestPools_Concurrency(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	for range 100 {
		wg.Go(func() {
			msg := GetMessage()
			msg.Type = "concurrent"
			PutMessage(msg)

			env := GetEnvelope()
			PutEnvelope(env)

			buf := GetBuffer()
			buf.WriteString("concurrent test")
			PutBuffer(buf)
		})
	}
	wg.Wait()
}

func BenchmarkMessagePool_GetPut(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			msg := GetMessage()
			msg.Type = "benchmark"
			msg.Payload = []byte("test")
			PutMessage(msg)
		}
	})
}

func BenchmarkMessagePool_NoPool(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			msg := &protocol.Message{}
			_ = msg
		}
	})
}
