package sim

// VTime defines the time in the simulated space in the unit of second.
type VTime float64

// TimeTeller can be used to get the current simulated time.
type TimeTeller interface {
	CurrentTime() VTime
}

// Named is implemented by model elements that carry a name. Names show up in
// traces and in illegal-operation panics.
type Named interface {
	Name() string
}
