package peripheral

type PinDirection int

const (
	Input PinDirection = iota
	Output
)

func (d PinDirection) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Pin is a single digital line. Operations are unconditional; implementations
// that can fail keep the error for later inspection.
type Pin interface {
	High()
	Low()

	Set(on bool)
	Get() bool

	SetDirection(dir PinDirection)
	GetDirection() PinDirection
}
