package codegen

import (
	"encoding/binary"
	"math"
)

// buffer accumulates one function's IL bytes and resolves label references
// to relative byte offsets before the caller appends it to the module
// stream. Labels are function-local: branch targets never cross a
// function boundary.
type buffer struct {
	bytes []byte

	labels  map[string]int   // label name -> byte offset once defined
	patches map[string][]int // label name -> offsets of i32 placeholders needing patching
}

func newBuffer() *buffer {
	return &buffer{
		labels:  map[string]int{},
		patches: map[string][]int{},
	}
}

func (b *buffer) writeByte(v byte) { b.bytes = append(b.bytes, v) }

func (b *buffer) writeU16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.bytes = append(b.bytes, tmp[:]...)
}

func (b *buffer) writeU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.bytes = append(b.bytes, tmp[:]...)
}

func (b *buffer) writeI32(v int32) { b.writeU32(uint32(v)) }

func (b *buffer) writeI64(v int64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(v))
	b.bytes = append(b.bytes, tmp[:]...)
}

func (b *buffer) writeF64(v float64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
	b.bytes = append(b.bytes, tmp[:]...)
}

func (b *buffer) writeStr(s string) {
	b.writeU32(uint32(len(s)))
	b.bytes = append(b.bytes, s...)
}

// defineLabel records name as pointing at the buffer's current end.
func (b *buffer) defineLabel(name string) {
	b.labels[name] = len(b.bytes)
}

// writeBranch appends opcode followed by a placeholder i32 offset, and
// records the placeholder's position for later patching once target's
// final byte offset is known.
func (b *buffer) writeBranch(op Op, target string) {
	b.writeByte(byte(op))
	pos := len(b.bytes)
	b.writeI32(0)
	b.patches[target] = append(b.patches[target], pos)
}

// resolve backpatches every recorded branch with the relative offset from
// the byte immediately after its i32 operand to the label's definition.
func (b *buffer) resolve() {
	for label, positions := range b.patches {
		target, ok := b.labels[label]
		if !ok {
			continue // dangling label: a prior pass error already recorded this
		}
		for _, pos := range positions {
			rel := int32(target - (pos + 4))
			binary.LittleEndian.PutUint32(b.bytes[pos:pos+4], uint32(rel))
		}
	}
}
