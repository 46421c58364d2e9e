// Package ir defines the linear three-address intermediate representation
// the IR generator produces and the assembly generator consumes: a flat
// instruction sequence with labels and conditional jumps, no basic-block
// structure.
package ir

import (
	"fmt"

	"github.com/cwbudde/go-exprc/internal/token"
	"github.com/cwbudde/go-exprc/internal/types"
)

// IRVar is a name-indexed virtual register: a fresh temporary (x1, x2, …),
// a builtin or operator reference (+, print_int, …), or the fixed unit
// variable. Equality is by Name.
type IRVar struct {
	Name string
}

func (v IRVar) String() string { return v.Name }

// Unit is the fixed variable every instruction that produces no meaningful
// value returns.
var Unit = IRVar{Name: "unit"}

// Instruction is the common interface of every IR variant.
type Instruction interface {
	Loc() token.SourceLocation
	String() string
	isInstruction()
}

type base struct {
	Location token.SourceLocation
}

func (b base) Loc() token.SourceLocation { return b.Location }
func (base) isInstruction()              {}

// LoadIntConstant loads a 64-bit constant into Dest.
type LoadIntConstant struct {
	base
	Value int64
	Dest  IRVar
}

func NewLoadIntConstant(loc token.SourceLocation, value int64, dest IRVar) *LoadIntConstant {
	return &LoadIntConstant{base: base{loc}, Value: value, Dest: dest}
}
func (i *LoadIntConstant) String() string {
	return fmt.Sprintf("LoadIntConstant(%d, %s)", i.Value, i.Dest)
}

// LoadBoolConstant loads a boolean constant into Dest.
type LoadBoolConstant struct {
	base
	Value bool
	Dest  IRVar
}

func NewLoadBoolConstant(loc token.SourceLocation, value bool, dest IRVar) *LoadBoolConstant {
	return &LoadBoolConstant{base: base{loc}, Value: value, Dest: dest}
}
func (i *LoadBoolConstant) String() string {
	return fmt.Sprintf("LoadBoolConstant(%t, %s)", i.Value, i.Dest)
}

// Copy moves the value of Source into Dest.
type Copy struct {
	base
	Source IRVar
	Dest   IRVar
}

func NewCopy(loc token.SourceLocation, source, dest IRVar) *Copy {
	return &Copy{base: base{loc}, Source: source, Dest: dest}
}
func (i *Copy) String() string { return fmt.Sprintf("Copy(%s, %s)", i.Source, i.Dest) }

// Call invokes Fun (an intrinsic or a runtime builtin) with Args, writing
// the result to Dest.
type Call struct {
	base
	Fun  IRVar
	Args []IRVar
	Dest IRVar
}

func NewCall(loc token.SourceLocation, fun IRVar, args []IRVar, dest IRVar) *Call {
	return &Call{base: base{loc}, Fun: fun, Args: args, Dest: dest}
}
func (i *Call) String() string {
	return fmt.Sprintf("Call(%s, %v, %s)", i.Fun, i.Args, i.Dest)
}

// Label marks a jump target by name.
type Label struct {
	base
	Name string
}

func NewLabel(loc token.SourceLocation, name string) *Label {
	return &Label{base: base{loc}, Name: name}
}
func (i *Label) String() string { return fmt.Sprintf("Label(%s)", i.Name) }

// Jump transfers control unconditionally to a label.
type Jump struct {
	base
	Target string
}

func NewJump(loc token.SourceLocation, target string) *Jump {
	return &Jump{base: base{loc}, Target: target}
}
func (i *Jump) String() string { return fmt.Sprintf("Jump(%s)", i.Target) }

// CondJump transfers control to Then if Cond holds a non-zero value,
// otherwise to Else.
type CondJump struct {
	base
	Cond IRVar
	Then string
	Else string
}

func NewCondJump(loc token.SourceLocation, cond IRVar, then, els string) *CondJump {
	return &CondJump{base: base{loc}, Cond: cond, Then: then, Else: els}
}
func (i *CondJump) String() string {
	return fmt.Sprintf("CondJump(%s, %s, %s)", i.Cond, i.Then, i.Else)
}

// TypeTable maps the fresh temporaries (x1, x2, …) the IR generator
// allocates to their static types. Operator and builtin IRVars and the
// fixed unit variable have no entry. The assembly generator does not read
// it: every stack slot is 8 bytes regardless of type.
type TypeTable map[string]types.Type

func NewTypeTable() TypeTable { return make(TypeTable) }

func (t TypeTable) Set(v IRVar, typ types.Type) { t[v.Name] = typ }
func (t TypeTable) Get(v IRVar) (types.Type, bool) {
	typ, ok := t[v.Name]
	return typ, ok
}

// Program is a fully lowered instruction sequence plus its variable types,
// the unit the codegen stage consumes.
type Program struct {
	Instructions []Instruction
	Types        TypeTable
}
