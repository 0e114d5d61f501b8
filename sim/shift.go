package sim

// ShiftRegister is a chain of 74HC595s: a bit enters on each clock rising
// edge and the shifted word appears on the outputs on a latch rising edge.
type ShiftRegister struct {
	width int
	shift uint16
	out   uint16
}

func NewShiftRegister(width int) *ShiftRegister {
	return &ShiftRegister{width: width}
}

func (r *ShiftRegister) Clock(bit bool) {
	r.shift <<= 1
	if bit {
		r.shift |= 1
	}
	r.shift &= uint16(1)<<r.width - 1
}

func (r *ShiftRegister) Latch() {
	r.out = r.shift
}

// Outputs returns Q0 upwards; the first bit clocked in ends on the highest
// output.
func (r *ShiftRegister) Outputs() uint16 {
	return r.out
}
