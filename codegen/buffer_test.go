package codegen

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestBufferWritesLittleEndianScalars(t *testing.T) {
	b := newBuffer()
	b.writeU16(0x0102)
	b.writeU32(0x01020304)
	b.writeI64(-1)
	b.writeF64(1.5)

	if got := binary.LittleEndian.Uint16(b.bytes[0:2]); got != 0x0102 {
		t.Errorf("u16: got %x", got)
	}
	if got := binary.LittleEndian.Uint32(b.bytes[2:6]); got != 0x01020304 {
		t.Errorf("u32: got %x", got)
	}
	if got := int64(binary.LittleEndian.Uint64(b.bytes[6:14])); got != -1 {
		t.Errorf("i64: got %d", got)
	}
	if got := math.Float64frombits(binary.LittleEndian.Uint64(b.bytes[14:22])); got != 1.5 {
		t.Errorf("f64: got %v", got)
	}
}

func TestBufferWriteStrPrefixesLength(t *testing.T) {
	b := newBuffer()
	b.writeStr("hi")
	if got := binary.LittleEndian.Uint32(b.bytes[0:4]); got != 2 {
		t.Fatalf("expected length prefix 2, got %d", got)
	}
	if string(b.bytes[4:6]) != "hi" {
		t.Errorf("expected bytes %q, got %q", "hi", b.bytes[4:6])
	}
}

func TestBufferResolvesForwardBranchToRelativeOffset(t *testing.T) {
	b := newBuffer()
	b.writeBranch(OpBranch, "end")
	b.writeByte(byte(OpReturn))
	b.defineLabel("end")
	b.resolve()

	if b.bytes[0] != byte(OpBranch) {
		t.Fatalf("expected first byte to be OpBranch, got %x", b.bytes[0])
	}
	rel := int32(binary.LittleEndian.Uint32(b.bytes[1:5]))
	// The offset byte immediately after the branch's operand (position 5)
	// plus rel must land exactly on "end", which was defined at position 6
	// (1 opcode byte + 4 offset bytes + 1 OpReturn byte).
	if int(5+rel) != 6 {
		t.Errorf("expected relative offset to resolve to byte 6, got %d", 5+rel)
	}
}

func TestBufferResolvesBackwardBranchToNegativeOffset(t *testing.T) {
	b := newBuffer()
	b.defineLabel("top")
	b.writeByte(byte(OpReturn))
	b.writeBranch(OpBranch, "top")
	b.resolve()

	patchPos := 2 // OpReturn (1 byte) + OpBranch opcode byte (1 byte)
	rel := int32(binary.LittleEndian.Uint32(b.bytes[patchPos : patchPos+4]))
	if rel >= 0 {
		t.Errorf("expected a negative relative offset for a backward branch, got %d", rel)
	}
	if int(patchPos+4)+int(rel) != 0 {
		t.Errorf("expected the offset to resolve back to byte 0, got %d", patchPos+4+int(rel))
	}
}
