package car

// Control is a single step's driving decision.
type Control struct {
	Accelerate bool
	Brake      bool
	SteerLeft  bool
	SteerRight bool
}
