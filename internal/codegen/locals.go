package codegen

import (
	"fmt"

	"github.com/cwbudde/go-exprc/internal/ir"
)

// Locals assigns every IRVar a distinct 8-byte stack slot at a fixed
// negative offset from %rbp, in first-seen order, mirroring the Locals
// class of the reference assembly generator.
type Locals struct {
	offsets map[string]int
	order   []string
	next    int
}

// NewLocals creates an empty slot allocator; the first variable referenced
// lands at -8(%rbp).
func NewLocals() *Locals {
	return &Locals{offsets: make(map[string]int), next: 8}
}

// Ref returns v's stack-slot operand, assigning one on first reference.
func (l *Locals) Ref(v ir.IRVar) string {
	off, ok := l.offsets[v.Name]
	if !ok {
		off = l.next
		l.offsets[v.Name] = off
		l.order = append(l.order, v.Name)
		l.next += 8
	}
	return fmt.Sprintf("-%d(%%rbp)", off)
}

// StackUsed returns the total stack bytes allocated so far, always a
// multiple of 8.
func (l *Locals) StackUsed() int { return l.next - 8 }

// Order returns every referenced IRVar name in first-seen order.
func (l *Locals) Order() []string {
	return append([]string(nil), l.order...)
}
