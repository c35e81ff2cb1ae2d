package damage

// Intercept applies final damage to a combatant at hp. When the hit would
// leave hp at or below zero a guts check is rolled; on success the
// combatant survives at 1 HP.
//
// Precondition: hp >= 0 and final >= 0.
// Postcondition: remaining is in [0, hp]; gutsTriggered implies remaining == 1.
func Intercept(hp, final int, gutsChance float64, rng Roller) (remaining int, gutsTriggered bool) {
	if final < hp {
		return hp - final, false
	}
	if hp > 0 && rng.Chance("guts", gutsChance) {
		return 1, true
	}
	return 0, false
}
