package shadowprice

// Policy returns the price adjustment for one minute. overload is
// assigned + exogenous load minus capacity and is negative when the lot has
// spare room.
type Policy func(price, overload, capacity float64) float64

// Proportional moves the price by gain per unit of overload relative to
// capacity. Lots without capacity are treated as holding one vehicle.
func Proportional(gain float64) Policy {
	return func(_, overload, capacity float64) float64 {
		if capacity <= 0 {
			capacity = 1
		}
		return gain * overload / capacity
	}
}

// Damped scales another policy's adjustment by factor.
func Damped(p Policy, factor float64) Policy {
	return func(price, overload, capacity float64) float64 {
		return factor * p(price, overload, capacity)
	}
}

// WithFloor clips adjustments so the updated price never drops below floor.
func WithFloor(p Policy, floor float64) Policy {
	return func(price, overload, capacity float64) float64 {
		diff := p(price, overload, capacity)
		if price+diff < floor {
			return floor - price
		}
		return diff
	}
}

// DefaultPolicy is a half-damped proportional update floored at zero.
func DefaultPolicy() Policy {
	return WithFloor(Damped(Proportional(1), 0.5), 0)
}
