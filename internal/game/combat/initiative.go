package combat

// initiativeOrder returns the two combatants with the higher derived
// initiative first. Ties go to the player.
func initiativeOrder(player, enemy *Combatant) [2]*Combatant {
	if enemy.Stats().Derived.Initiative > player.Stats().Derived.Initiative {
		return [2]*Combatant{enemy, player}
	}
	return [2]*Combatant{player, enemy}
}
