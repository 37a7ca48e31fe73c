package composer

import (
	"github.com/algopulse/algoabi/abi"
	"github.com/algopulse/algoabi/method"
	"github.com/algopulse/algoabi/node"
)

// returnValueMagic is the 4-byte prefix every ABI-conformant method logs
// ahead of its encoded return value, per spec.md section 4.G.
var returnValueMagic = [4]byte{0x15, 0x1f, 0x7c, 0x75}

// ReturnValue is the decoded outcome of one method call: either Void (the
// method declares no return), a successfully decoded value, or a decode
// error captured without aborting the rest of an Execute call.
type ReturnValue struct {
	Void  bool
	Value abi.Value
	Err   error
}

// decodeReturnValue locates the method's return value in a confirmed
// transaction's logs and decodes it per the declared return type.
func decodeReturnValue(m *method.Method, info node.PendingTransactionInfo) ReturnValue {
	if m.Ret.IsVoid() {
		return ReturnValue{Void: true}
	}

	if len(info.Logs) == 0 {
		return ReturnValue{Err: newError(KindAbiReturnDecodeError, "no logs emitted, expected an ABI return value")}
	}
	last := info.Logs[len(info.Logs)-1]
	if len(last) < 4 {
		return ReturnValue{Err: newError(KindAbiReturnDecodeError, "final log entry too short to carry the return-value magic")}
	}
	var prefix [4]byte
	copy(prefix[:], last[:4])
	if prefix != returnValueMagic {
		return ReturnValue{Err: newError(KindAbiReturnDecodeError, "final log entry does not start with the ABI return-value magic")}
	}

	val, err := abi.Decode(m.Ret.AbiType(), last[4:])
	if err != nil {
		return ReturnValue{Err: wrapError(KindAbiReturnDecodeError, err, "decoding return value")}
	}
	return ReturnValue{Value: val}
}
