package codegen

import (
	"strconv"
	"strings"
	"testing"
)

// execMachine is a tiny interpreter for the specific subset of x86-64 AT&T
// instructions this package ever emits. It exists to verify the emitted
// assembly actually computes the right answer instead of lexically matching
// mnemonics, since nothing else in this module assembles and runs the
// generator's output.
type execMachine struct {
	regs map[string]int64
	mem  map[string]int64
	zf   bool
	sf   bool
	of   bool
}

func newExecMachine() *execMachine {
	return &execMachine{regs: map[string]int64{}, mem: map[string]int64{}}
}

func (m *execMachine) get(operand string) int64 {
	switch {
	case strings.HasPrefix(operand, "$"):
		n, err := strconv.ParseInt(strings.TrimPrefix(operand, "$"), 10, 64)
		if err != nil {
			panic(err)
		}
		return n
	case operand == "%al":
		return m.regs["rax"] & 0xff
	case strings.HasPrefix(operand, "%"):
		return m.regs[strings.TrimPrefix(operand, "%")]
	default:
		return m.mem[operand]
	}
}

func (m *execMachine) set(operand string, v int64) {
	switch {
	case operand == "%al":
		m.regs["rax"] = (m.regs["rax"] &^ 0xff) | (v & 0xff)
	case strings.HasPrefix(operand, "%"):
		m.regs[strings.TrimPrefix(operand, "%")] = v
	default:
		m.mem[operand] = v
	}
}

func (m *execMachine) setFlagsFromResult(v int64) {
	m.zf = v == 0
	m.sf = v < 0
	m.of = false
}

func (m *execMachine) setcc(operand string, cond bool) {
	if cond {
		m.set(operand, 1)
	} else {
		m.set(operand, 0)
	}
}

// simulate runs asm until the first callq to print_int or print_bool and
// returns what that call would have printed, mirroring the trailing print
// the IR of every Int- or Bool-typed program carries (see internal/irgen). This is the
// same observable the Codegen ≡ interpreter property in spec.md compares.
func simulate(t *testing.T, asm string) string {
	t.Helper()
	lines := strings.Split(asm, "\n")

	labelPos := map[string]int{}
	for i, raw := range lines {
		l := strings.TrimSpace(raw)
		if strings.HasPrefix(l, ".L") && strings.HasSuffix(l, ":") {
			labelPos[strings.TrimSuffix(l, ":")] = i
		}
	}

	m := newExecMachine()
	for pc := 0; pc < len(lines); pc++ {
		line := strings.TrimSpace(lines[pc])
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ".") || strings.HasSuffix(line, ":") {
			continue
		}

		mnem := line
		var rawOperands string
		if idx := strings.IndexByte(line, ' '); idx >= 0 {
			mnem = line[:idx]
			rawOperands = strings.TrimSpace(line[idx+1:])
		}
		var ops []string
		if rawOperands != "" {
			for _, p := range strings.Split(rawOperands, ",") {
				ops = append(ops, strings.TrimSpace(p))
			}
		}

		switch mnem {
		case "pushq", "popq", "leave", "ret":
			// prologue/epilogue bookkeeping, irrelevant to the slot-keyed
			// memory model above.
		case "movq", "movabsq", "movzbq":
			m.set(ops[1], m.get(ops[0]))
		case "addq":
			m.set(ops[1], m.get(ops[1])+m.get(ops[0]))
		case "subq":
			m.set(ops[1], m.get(ops[1])-m.get(ops[0]))
		case "imulq":
			m.set(ops[1], m.get(ops[1])*m.get(ops[0]))
		case "cqto":
			if m.regs["rax"] < 0 {
				m.regs["rdx"] = -1
			} else {
				m.regs["rdx"] = 0
			}
		case "idivq":
			divisor := m.get(ops[0])
			dividend := m.regs["rax"]
			m.regs["rax"] = dividend / divisor
			m.regs["rdx"] = dividend % divisor
		case "negq":
			v := -m.get(ops[0])
			m.set(ops[0], v)
			m.setFlagsFromResult(v)
		case "xorq", "xor":
			v := m.get(ops[1]) ^ m.get(ops[0])
			m.set(ops[1], v)
			m.setFlagsFromResult(v)
		case "cmpq":
			b := m.get(ops[0])
			a := m.get(ops[1])
			diff := a - b
			m.zf = diff == 0
			m.sf = diff < 0
			m.of = ((a >= 0) != (b >= 0)) && ((diff >= 0) != (a >= 0))
		case "sete":
			m.setcc(ops[0], m.zf)
		case "setne":
			m.setcc(ops[0], !m.zf)
		case "setl":
			m.setcc(ops[0], m.sf != m.of)
		case "setle":
			m.setcc(ops[0], m.zf || m.sf != m.of)
		case "setg":
			m.setcc(ops[0], !m.zf && m.sf == m.of)
		case "setge":
			m.setcc(ops[0], m.sf == m.of)
		case "jmp":
			pc = labelPos[ops[0]]
		case "jne":
			if !m.zf {
				pc = labelPos[ops[0]]
			}
		case "je":
			if m.zf {
				pc = labelPos[ops[0]]
			}
		case "callq":
			switch ops[0] {
			case "print_int":
				return strconv.FormatInt(m.regs["rdi"], 10)
			case "print_bool":
				if m.regs["rdi"] != 0 {
					return "true"
				}
				return "false"
			case "read_int":
				m.regs["rax"] = 0
			default:
				t.Fatalf("unsimulated callq target %q", ops[0])
			}
		default:
			t.Fatalf("unsimulated instruction %q", line)
		}
	}
	t.Fatalf("program never reached a print call:\n%s", asm)
	return ""
}
