package codegen

// emitFunc appends one assembly line, already indented, to the body.
type emitFunc func(format string, args ...any)

// intrinsic lowers a Call to one of the fixed operator names directly into
// inline instructions, given the stack-slot operands of its arguments and
// an emit callback. Results always land in %rax; the caller copies %rax
// into the call's destination slot afterward.
type intrinsic func(args []string, emit emitFunc)

func arithmetic(op string) intrinsic {
	return func(args []string, emit emitFunc) {
		emit("movq %s, %%rax", args[0])
		emit("%s %s, %%rax", op, args[1])
	}
}

func division(wantRemainder bool) intrinsic {
	return func(args []string, emit emitFunc) {
		emit("movq %s, %%rax", args[0])
		emit("cqto")
		emit("idivq %s", args[1])
		if wantRemainder {
			emit("movq %%rdx, %%rax")
		}
	}
}

// comparison lowers ==, !=, <, <=, >, >= via cmpq + set<cc>, then
// zero-extends the single-byte result out of %al into %rax. set<cc> reads
// the flags cmpq just set, so nothing may touch the flags in between —
// in particular no xor %rax,%rax, which would itself zero every flag
// set<cc> depends on and make the comparison's result constant.
func comparison(setcc string) intrinsic {
	return func(args []string, emit emitFunc) {
		emit("movq %s, %%rax", args[0])
		emit("cmpq %s, %%rax", args[1])
		emit("%s %%al", setcc)
		emit("movzbq %%al, %%rax")
	}
}

// Intrinsics maps every operator name that can reach codegen as a Call
// target (arithmetic, the six comparisons including == and !=, unary_-,
// unary_not) to its inline lowering. "and"/"or" are absent: the IR
// generator lowers them to jumps, never to a Call. The runtime builtins
// print_int, print_bool, read_int are real calls, not inlined.
var Intrinsics = map[string]intrinsic{
	"+": arithmetic("addq"),
	"-": arithmetic("subq"),
	"*": arithmetic("imulq"),
	"/": division(false),
	"%": division(true),

	"==": comparison("sete"),
	"!=": comparison("setne"),
	"<":  comparison("setl"),
	"<=": comparison("setle"),
	">":  comparison("setg"),
	">=": comparison("setge"),

	"unary_-": func(args []string, emit emitFunc) {
		emit("movq %s, %%rax", args[0])
		emit("negq %%rax")
	},
	"unary_not": func(args []string, emit emitFunc) {
		emit("movq %s, %%rax", args[0])
		emit("xorq $1, %%rax")
	},
}

// Builtins lists the runtime functions called through the C calling
// convention rather than inlined. print_int and print_bool take their single
// argument in %rdi; read_int takes none and returns its value in %rax.
var Builtins = map[string]bool{
	"print_int":  true,
	"print_bool": true,
	"read_int":   true,
}
