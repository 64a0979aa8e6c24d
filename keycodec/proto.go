package keycodec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

// Proto canonicalizes proto.Message keys with deterministic marshaling.
// Determinism holds within a single binary, which is all a process-local
// cache needs. Non-proto keys are rejected.
// The zero value is ready to use.
type Proto struct{}

func (Proto) CanonicalBytes(key any) ([]byte, error) {
	msg, ok := key.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("keycodec: %T is not a proto.Message", key)
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(msg)
}
