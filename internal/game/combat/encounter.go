package combat

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/shinobi/internal/game/condition"
	"github.com/cory-johannsen/shinobi/internal/game/damage"
	"github.com/cory-johannsen/shinobi/internal/game/skill"
)

// Options configures an Encounter. The zero value is usable.
type Options struct {
	// MaxSideActions is the per-turn Side-category budget; 0 selects DefaultMaxSideActions.
	MaxSideActions int
	// MaxRounds ends the encounter in a draw once exceeded; 0 means unlimited.
	MaxRounds int
	// Policy drives ProcessEnemyTurn; nil selects BasicPolicy.
	Policy Policy
	Logger *zap.Logger
}

// Encounter is one player-versus-enemy fight. It is the only mutator of its
// two combatants and must be driven by one caller at a time.
type Encounter struct {
	ID     uuid.UUID
	Player *Combatant
	Enemy  *Combatant

	calc      *damage.Calculator
	rng       damage.Roller
	policy    Policy
	logger    *zap.Logger
	maxRounds int

	order   [2]*Combatant
	turn    int
	round   int
	phase   *PhaseState
	started bool
	outcome Outcome

	log     []LogEntry
	results []damage.Result
}

// NewEncounter creates an encounter that has not yet started.
//
// Precondition: player, enemy, calc, and rng must be non-nil and the
// combatants must have distinct IDs.
// Postcondition: Started() is false; Start must be called before any other operation.
func NewEncounter(player, enemy *Combatant, calc *damage.Calculator, rng damage.Roller, opts Options) *Encounter {
	if player == nil || enemy == nil || calc == nil || rng == nil {
		panic("combat: NewEncounter requires non-nil combatants, calculator, and rng")
	}
	if player.ID == enemy.ID {
		panic(fmt.Sprintf("combat: combatants share id %q", player.ID))
	}
	if opts.Policy == nil {
		opts.Policy = BasicPolicy{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	id := uuid.New()
	return &Encounter{
		ID:        id,
		Player:    player,
		Enemy:     enemy,
		calc:      calc,
		rng:       rng,
		policy:    opts.Policy,
		logger:    opts.Logger.With(zap.String("encounter", id.String())),
		maxRounds: opts.MaxRounds,
		phase:     NewPhaseState(opts.MaxSideActions),
	}
}

// Started reports whether Start has run.
func (e *Encounter) Started() bool { return e.started }

// Over reports whether the encounter has an outcome.
func (e *Encounter) Over() bool { return e.outcome != OutcomeOngoing }

// Outcome returns the current outcome.
func (e *Encounter) Outcome() Outcome { return e.outcome }

// Round returns the 1-based round number; 0 before Start.
func (e *Encounter) Round() int { return e.round }

// Phase returns the current actor's phase.
func (e *Encounter) Phase() Phase { return e.phase.Phase() }

// PhaseState exposes the action economy of the current turn.
func (e *Encounter) PhaseState() PhaseState { return *e.phase }

// Actor returns the combatant whose turn it is, or nil before Start.
func (e *Encounter) Actor() *Combatant {
	if !e.started {
		return nil
	}
	return e.order[e.turn]
}

func (e *Encounter) opponent(c *Combatant) *Combatant {
	if c == e.Player {
		return e.Enemy
	}
	return e.Player
}

// Start rolls initiative and fires combat_start passives for both sides in
// initiative order.
//
// Postcondition: on success Round() == 1, Phase() == PhaseUpkeep, and Actor()
// is the side with the higher initiative (the player on ties).
func (e *Encounter) Start() (TurnResult, error) {
	if e.Over() {
		return TurnResult{}, reject(ReasonEncounterOver, "encounter is %s", e.outcome)
	}
	if e.started {
		return TurnResult{}, reject(ReasonWrongPhase, "encounter already started")
	}
	e.begin()
	e.started = true
	e.round = 1
	e.order = initiativeOrder(e.Player, e.Enemy)
	first, second := e.order[0], e.order[1]
	e.logf(SeverityInfo, "%s faces %s.", e.Player.Name, e.Enemy.Name)
	e.logf(SeverityInfo, "%s acts first (initiative %d vs %d).",
		first.Name, first.Stats().Derived.Initiative, second.Stats().Derived.Initiative)
	for _, c := range e.order {
		e.firePassives(c, e.opponent(c), condition.TriggerCombatStart)
	}
	e.checkDefeat()
	e.logger.Info("encounter started",
		zap.String("player", e.Player.ID),
		zap.String("enemy", e.Enemy.ID),
		zap.String("first", first.ID),
	)
	return e.result(first), nil
}

// BeginTurn runs upkeep for the current actor and opens its side phase.
// Called from the end phase it first passes the turn to the other side.
// Calling it again once the side phase is open changes nothing.
//
// Postcondition: unless the encounter ended during upkeep, Phase() is side or main.
func (e *Encounter) BeginTurn() (TurnResult, error) {
	if err := e.ready(); err != nil {
		return TurnResult{}, err
	}
	e.begin()
	e.beginTurn()
	return e.result(e.Actor()), nil
}

// Check validates a player skill use without changing anything.
func (e *Encounter) Check(skillID string) error {
	if err := e.ready(); err != nil {
		return err
	}
	if e.Actor() != e.Player {
		return reject(ReasonNotYourTurn, "it is %s's turn", e.Actor().Name)
	}
	_, err := e.validate(e.Player, skillID)
	return err
}

// UseSkill performs a player skill use. Main-category uses end the turn.
//
// Postcondition: a non-nil error is a *Rejection and the encounter is unchanged.
func (e *Encounter) UseSkill(skillID string, mods damage.Modifiers) (TurnResult, error) {
	if err := e.Check(skillID); err != nil {
		return TurnResult{}, err
	}
	inst, _ := e.Player.Skill(skillID)
	e.begin()
	e.use(e.Player, inst, mods)
	return e.result(e.Player), nil
}

// Pass ends the player's turn without a main action.
func (e *Encounter) Pass() (TurnResult, error) {
	if err := e.ready(); err != nil {
		return TurnResult{}, err
	}
	if e.Actor() != e.Player {
		return TurnResult{}, reject(ReasonNotYourTurn, "it is %s's turn", e.Actor().Name)
	}
	if ph := e.phase.Phase(); ph != PhaseSide && ph != PhaseMain {
		return TurnResult{}, reject(ReasonWrongPhase, "cannot pass during %s", ph)
	}
	e.begin()
	e.pass(e.Player)
	return e.result(e.Player), nil
}

// ProcessEnemyTurn plays the enemy's whole turn with the encounter policy:
// upkeep if needed, the side actions the policy asks for, then the chosen
// skill, the basic attack, or a pass.
func (e *Encounter) ProcessEnemyTurn(mods damage.Modifiers) (TurnResult, error) {
	return e.autoTurn(e.Enemy, e.policy, mods)
}

// AutoPlayerTurn plays the player's whole turn with policy.
//
// Precondition: policy must not be nil.
func (e *Encounter) AutoPlayerTurn(policy Policy, mods damage.Modifiers) (TurnResult, error) {
	if policy == nil {
		panic("combat: AutoPlayerTurn requires a policy")
	}
	return e.autoTurn(e.Player, policy, mods)
}

func (e *Encounter) autoTurn(c *Combatant, policy Policy, mods damage.Modifiers) (TurnResult, error) {
	if err := e.ready(); err != nil {
		return TurnResult{}, err
	}
	cur, ph := e.Actor(), e.phase.Phase()
	if !(cur == c && ph != PhaseEnd) && !(cur != c && ph == PhaseEnd) {
		return TurnResult{}, reject(ReasonNotYourTurn, "it is %s's turn", cur.Name)
	}
	e.begin()
	e.beginTurn()
	e.sideActions(c, policy, mods)
	if !e.Over() {
		if id := e.choose(c, policy); id != "" {
			inst, _ := c.Skill(id)
			e.use(c, inst, mods)
		} else {
			e.pass(c)
		}
	}
	return e.result(c), nil
}

// Usable returns the Main-category skills c could use right now, including
// the basic attack, in skill order.
func (e *Encounter) Usable(c *Combatant) []*skill.Instance {
	return e.usable(c, func(cat skill.Category) bool { return cat == skill.CategoryMain })
}

// SideUsable returns the Side and Toggle skills c could use right now, in
// skill order. Active toggles are included; using one deactivates it.
func (e *Encounter) SideUsable(c *Combatant) []*skill.Instance {
	return e.usable(c, func(cat skill.Category) bool {
		return cat == skill.CategorySide || cat == skill.CategoryToggle
	})
}

func (e *Encounter) usable(c *Combatant, want func(skill.Category) bool) []*skill.Instance {
	var out []*skill.Instance
	for _, inst := range c.allSkills() {
		if !want(inst.Skill.Category) {
			continue
		}
		if _, err := e.validate(c, inst.ID()); err == nil {
			out = append(out, inst)
		}
	}
	return out
}

// sideActions lets policy spend c's side-action budget.
func (e *Encounter) sideActions(c *Combatant, policy Policy, mods damage.Modifiers) {
	for !e.Over() && e.phase.Phase() == PhaseSide && e.phase.SideActionsLeft() > 0 {
		usable := e.SideUsable(c)
		if len(usable) == 0 {
			return
		}
		id := policy.ChooseSide(c, e.opponent(c), usable)
		inst := findInstance(usable, id)
		if inst == nil {
			if id != "" {
				e.logger.Debug("policy chose unusable side skill", zap.String("skill", id), zap.String("actor", c.ID))
			}
			return
		}
		e.use(c, inst, mods)
	}
}

func findInstance(list []*skill.Instance, id string) *skill.Instance {
	for _, inst := range list {
		if inst.ID() == id {
			return inst
		}
	}
	return nil
}

func (e *Encounter) choose(c *Combatant, policy Policy) string {
	usable := e.Usable(c)
	if len(usable) == 0 {
		return ""
	}
	id := policy.ChooseSkill(c, e.opponent(c), usable)
	if findInstance(usable, id) != nil {
		return id
	}
	if id != "" {
		e.logger.Debug("policy chose unusable skill", zap.String("skill", id), zap.String("actor", c.ID))
	}
	for _, inst := range usable {
		if inst.ID() == skill.BasicAttackID {
			return inst.ID()
		}
	}
	return usable[0].ID()
}

func (e *Encounter) ready() error {
	if e.Over() {
		return reject(ReasonEncounterOver, "encounter is %s", e.outcome)
	}
	if !e.started {
		return reject(ReasonWrongPhase, "encounter has not started")
	}
	return nil
}

// validate checks every precondition of c using skillID in the current phase.
func (e *Encounter) validate(c *Combatant, skillID string) (*skill.Instance, error) {
	inst, ok := c.Skill(skillID)
	if !ok {
		return nil, reject(ReasonUnknownSkill, "%s does not know %q", c.Name, skillID)
	}
	s := inst.Skill
	ph := e.phase.Phase()
	switch s.Category {
	case skill.CategoryPassive:
		return nil, reject(ReasonNotUsable, "%s is a passive skill", s.DisplayName())
	case skill.CategorySide, skill.CategoryToggle:
		if ph != PhaseSide {
			return nil, reject(ReasonWrongPhase, "%s skills are only usable in the side phase, not %s", s.Category, ph)
		}
		if e.phase.SideActionsLeft() <= 0 {
			return nil, reject(ReasonSideActionLimit, "no side actions left this turn (max %d)", e.phase.MaxSideActions)
		}
	case skill.CategoryMain:
		if ph != PhaseSide && ph != PhaseMain {
			return nil, reject(ReasonWrongPhase, "main skills are not usable during %s", ph)
		}
		if c.Buffs.HasKind(condition.KindStun) {
			return nil, reject(ReasonStunned, "%s is stunned", c.Name)
		}
	default:
		panic(fmt.Sprintf("combat: skill %q has invalid category %d", s.ID, int(s.Category)))
	}
	if s.Category == skill.CategoryToggle && inst.Active {
		return inst, nil
	}
	if !inst.Ready() {
		return nil, reject(ReasonOnCooldown, "%s is on cooldown for %d more turn(s)", s.DisplayName(), inst.Cooldown)
	}
	if s.ChakraCost > 0 && c.Buffs.HasKind(condition.KindSilence) {
		return nil, reject(ReasonSilenced, "%s is silenced", c.Name)
	}
	if cost := c.chakraCost(inst); cost > c.Chakra {
		return nil, reject(ReasonInsufficientChakra, "%s needs %d chakra, has %d", s.DisplayName(), cost, c.Chakra)
	}
	if s.HPCost > 0 && s.HPCost >= c.HP {
		return nil, reject(ReasonInsufficientHP, "%s needs more than %d HP, has %d", s.DisplayName(), s.HPCost, c.HP)
	}
	return inst, nil
}

// chakraCost is the template cost unless a free_first_skill passive covers
// the combatant's first skill use.
func (c *Combatant) chakraCost(inst *skill.Instance) int {
	if !c.freeSkillUsed && len(c.staticPassives(condition.PassiveFreeFirstSkill)) > 0 {
		return 0
	}
	return inst.Skill.ChakraCost
}

func (e *Encounter) beginTurn() {
	if e.phase.Phase() == PhaseEnd {
		e.advance()
		if e.Over() {
			return
		}
	}
	if e.phase.Phase() != PhaseUpkeep {
		return
	}
	if !e.phase.UpkeepProcessed {
		e.upkeep(e.Actor())
		e.phase.UpkeepProcessed = true
	}
	if e.Over() {
		return
	}
	e.phase.open()
}

func (e *Encounter) advance() {
	e.phase.next()
	e.turn = (e.turn + 1) % len(e.order)
	if e.turn == 0 {
		e.round++
		if e.maxRounds > 0 && e.round > e.maxRounds {
			e.logf(SeverityWarning, "The fight drags past round %d and is called off.", e.maxRounds)
			e.finish(OutcomeDraw)
			return
		}
	}
	e.logf(SeverityInfo, "Round %d: %s's turn.", e.round, e.Actor().Name)
}

// upkeep runs the start-of-turn steps for c in order: natural regeneration,
// toggle upkeep, buff ticks, cooldowns, then turn_start and below_half_hp passives.
func (e *Encounter) upkeep(c *Combatant) {
	opp := e.opponent(c)
	d := c.Stats().Derived
	if gained := c.heal(d.HPRegen); gained > 0 {
		e.logf(SeveritySuccess, "%s regenerates %d HP.", c.Name, gained)
	}
	if gained := c.restoreChakra(d.ChakraRegen); gained > 0 {
		e.logf(SeverityInfo, "%s recovers %d chakra.", c.Name, gained)
	}
	e.payToggleUpkeep(c)
	e.tickBuffs(c)
	if c.IsDefeated() {
		e.checkDefeat()
		return
	}
	for _, inst := range c.Skills {
		inst.TickCooldown()
	}
	e.firePassives(c, opp, condition.TriggerTurnStart)
	if c.HP*2 < c.Stats().Derived.MaxHP {
		e.firePassives(c, opp, condition.TriggerBelowHalfHP)
	}
	c.clampPools()
	opp.clampPools()
	e.checkDefeat()
}

func (e *Encounter) use(c *Combatant, inst *skill.Instance, mods damage.Modifiers) {
	opp := e.opponent(c)
	s := inst.Skill
	e.logger.Debug("skill used",
		zap.String("actor", c.ID),
		zap.String("skill", s.ID),
		zap.String("phase", string(e.phase.Phase())),
		zap.Int("round", e.round),
	)
	if s.Category == skill.CategoryToggle && inst.Active {
		e.deactivateToggle(c, inst)
		e.logf(SeverityInfo, "%s drops %s.", c.Name, s.DisplayName())
		e.phase.SideActionsUsed++
		return
	}

	c.Chakra -= c.chakraCost(inst)
	c.HP -= s.HPCost
	c.freeSkillUsed = true
	inst.StartCooldown()

	switch s.Category {
	case skill.CategoryToggle:
		e.activateToggle(c, inst)
		e.phase.SideActionsUsed++
	case skill.CategorySide:
		e.logf(SeverityInfo, "%s uses %s.", c.Name, s.DisplayName())
		e.resolveSkill(c, opp, inst, mods)
		e.phase.SideActionsUsed++
	case skill.CategoryMain:
		target := opp
		if chance := c.Buffs.ConfusionChance(); chance > 0 && e.rng.Chance("confusion", chance) {
			target = c
			e.logf(SeverityWarning, "%s is confused and turns %s on itself!", c.Name, s.DisplayName())
		} else {
			e.logf(SeverityInfo, "%s uses %s.", c.Name, s.DisplayName())
		}
		e.resolveSkill(c, target, inst, mods)
		e.phase.finish()
	default:
		panic(fmt.Sprintf("combat: skill %q has invalid category %d", s.ID, int(s.Category)))
	}
	c.clampPools()
	opp.clampPools()
	e.checkDefeat()
}

func (e *Encounter) pass(c *Combatant) {
	e.logf(SeverityInfo, "%s passes.", c.Name)
	e.phase.finish()
}

func (e *Encounter) checkDefeat() {
	if e.Over() {
		return
	}
	p, en := e.Player.IsDefeated(), e.Enemy.IsDefeated()
	switch {
	case p && en:
		e.logf(SeverityWarning, "%s and %s fall together.", e.Player.Name, e.Enemy.Name)
		e.finish(OutcomeDraw)
	case en:
		e.logf(SeveritySuccess, "%s is defeated!", e.Enemy.Name)
		e.finish(OutcomePlayerWon)
	case p:
		e.logf(SeverityDanger, "%s is defeated!", e.Player.Name)
		e.finish(OutcomeEnemyWon)
	}
}

func (e *Encounter) finish(o Outcome) {
	e.outcome = o
	e.logger.Info("encounter finished",
		zap.String("outcome", o.String()),
		zap.Int("round", e.round),
	)
}

func (e *Encounter) begin() {
	e.log = nil
	e.results = nil
}

func (e *Encounter) logf(sev Severity, format string, args ...any) {
	e.log = append(e.log, LogEntry{Severity: sev, Message: fmt.Sprintf(format, args...)})
}

func (e *Encounter) record(r damage.Result) {
	e.results = append(e.results, r)
}

func (e *Encounter) result(actor *Combatant) TurnResult {
	opp := e.opponent(actor)
	return TurnResult{
		Player:           e.Player.Snapshot(),
		Enemy:            e.Enemy.Snapshot(),
		ActorID:          actor.ID,
		Phase:            e.phase.Phase(),
		Round:            e.round,
		Log:              e.log,
		Damage:           e.results,
		AttackerDefeated: actor.IsDefeated(),
		DefenderDefeated: opp.IsDefeated(),
		Outcome:          e.outcome,
	}
}
