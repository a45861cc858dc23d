package interact

// Slider holds raw widget values for the three live-tunable forces.
type Slider struct {
	ChargeStrength  float64 `json:"chargeStrength"`
	CollisionRadius float64 `json:"collisionRadius"`
	LinkStrength    float64 `json:"linkStrength"`
}

// Event converts slider values into a parameter change. The collide
// multiplier is CollisionRadius / baseline, so it grows monotonically with the
// slider; out-of-range results are clamped when the change is applied.
// A non-positive baseline falls back to 12.
func (s Slider) Event(baseline float64) SetForceParameters {
	if !(baseline > 0) {
		baseline = DefaultConfig().CollideBaseline
	}
	return SetForceParameters{
		Charge:            Float(s.ChargeStrength),
		CollideMultiplier: Float(s.CollisionRadius / baseline),
		LinkStrength:      Float(s.LinkStrength),
	}
}
