package reward

import "math"

// AviatorCrash samples the full crash point for an Aviator round before the
// round opens. A 40% winning draw crashes somewhere in [2.0, 7.0), a losing
// draw in [1.0, 2.0). The live climbing multiplier shown to the player is a
// rendering artifact; only this value decides the round.
func (r *Resolver) AviatorCrash() float64 {
	var crash float64
	if r.src.Float64() < aviatorWinProb {
		crash = aviatorWinLow + r.src.Float64()*(aviatorWinHigh-aviatorWinLow)
	} else {
		crash = aviatorLossLow + r.src.Float64()*(aviatorLossHigh-aviatorLossLow)
	}
	return math.Min(math.Max(crash, aviatorLossLow), aviatorWinHigh)
}

// LimboResult samples the round result for a player-chosen target. Targets
// below MinLimboTarget are clamped up. A 42% winning draw lands in
// [target, 10.0), a losing draw in [1.0, target); result >= target wins.
func (r *Resolver) LimboResult(target float64) float64 {
	if target < MinLimboTarget {
		target = MinLimboTarget
	}
	if r.src.Float64() < limboWinProb {
		return target + r.src.Float64()*(limboCeiling-target)
	}
	return 1.0 + r.src.Float64()*(target-1.0)
}
