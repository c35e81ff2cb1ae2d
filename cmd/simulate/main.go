// Package main provides the simulate binary, which loads combat content and
// plays one encounter between two templates with policy-driven turns.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/shinobi/internal/config"
	"github.com/cory-johannsen/shinobi/internal/game/ai"
	"github.com/cory-johannsen/shinobi/internal/game/combat"
	"github.com/cory-johannsen/shinobi/internal/game/condition"
	"github.com/cory-johannsen/shinobi/internal/game/damage"
	"github.com/cory-johannsen/shinobi/internal/game/dice"
	"github.com/cory-johannsen/shinobi/internal/game/element"
	"github.com/cory-johannsen/shinobi/internal/game/roster"
	"github.com/cory-johannsen/shinobi/internal/game/skill"
	"github.com/cory-johannsen/shinobi/internal/observability"
	"github.com/cory-johannsen/shinobi/internal/scripting"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	playerID := flag.String("player", "genin", "player template ID")
	enemyID := flag.String("enemy", "bandit", "enemy template ID")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	outcome, err := simulate(cfg, *playerID, *enemyID, os.Stdout, logger)
	if err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
	fmt.Printf("outcome: %s\n", outcome)
}

// content is everything loaded from the content tree.
type content struct {
	skills   *skill.Registry
	elements *element.Table
	roster   *roster.Roster
	policies *ai.Registry
	scripts  *scripting.Manager
}

func loadContent(cfg config.Config, roller *dice.Roller, logger *zap.Logger) (*content, error) {
	start := time.Now()
	effects, err := condition.LoadDirectory(cfg.Content.ConditionsDir)
	if err != nil {
		return nil, fmt.Errorf("loading conditions: %w", err)
	}
	skills, err := skill.LoadDirectory(cfg.Content.SkillsDir, effects)
	if err != nil {
		return nil, fmt.Errorf("loading skills: %w", err)
	}
	elements, err := element.LoadTable(cfg.Content.ElementsFile)
	if err != nil {
		return nil, err
	}
	templates, err := roster.LoadTemplates(cfg.Content.TemplatesDir)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	c := &content{skills: skills, elements: elements, roster: templates, policies: ai.NewRegistry()}
	if cfg.Content.ScriptsDir != "" {
		c.scripts = scripting.NewManager(roller, logger)
		c.policies, err = ai.LoadDirectory(cfg.Content.ScriptsDir, c.scripts, cfg.Scripting.InstructionLimit, logger)
		if err != nil {
			c.scripts.Close()
			return nil, fmt.Errorf("loading ai scripts: %w", err)
		}
	}
	logger.Info("content loaded",
		zap.Int("effects", len(effects.All())),
		zap.Int("skills", len(skills.All())),
		zap.Int("templates", len(templates.All())),
		zap.Strings("policies", c.policies.IDs()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return c, nil
}

func (c *content) build(templateID, id string) (*combat.Combatant, combat.Policy, error) {
	tmpl, ok := c.roster.Get(templateID)
	if !ok {
		return nil, nil, fmt.Errorf("unknown template %q", templateID)
	}
	cb, err := roster.Build(tmpl, id, c.skills, c.elements)
	if err != nil {
		return nil, nil, err
	}
	policy, ok := c.policies.PolicyFor(tmpl.AI)
	if !ok {
		return nil, nil, fmt.Errorf("template %q: unknown ai %q", templateID, tmpl.AI)
	}
	return cb, policy, nil
}

// simulate plays one encounter to completion and writes its narration to out.
//
// Postcondition: returns the final outcome, or an error if content fails to
// load or the encounter rejects a policy-driven turn.
func simulate(cfg config.Config, playerID, enemyID string, out io.Writer, logger *zap.Logger) (combat.Outcome, error) {
	src := dice.NewCryptoSource()
	if cfg.Combat.Seed != 0 {
		src = dice.NewSeededSource(cfg.Combat.Seed)
	}
	roller := dice.NewLoggedRoller(src, logger)

	c, err := loadContent(cfg, roller, logger)
	if err != nil {
		return combat.OutcomeOngoing, err
	}
	if c.scripts != nil {
		defer c.scripts.Close()
	}

	player, playerPolicy, err := c.build(playerID, "player")
	if err != nil {
		return combat.OutcomeOngoing, err
	}
	player.Kind = combat.KindPlayer
	enemy, enemyPolicy, err := c.build(enemyID, "enemy")
	if err != nil {
		return combat.OutcomeOngoing, err
	}
	enemy.Kind = combat.KindEnemy

	engine := combat.NewEngine(c.elements, logger)
	enc, res, err := engine.StartEncounter(player, enemy, roller, combat.Options{
		MaxSideActions: cfg.Combat.MaxSideActions,
		MaxRounds:      cfg.Combat.MaxRounds,
		Policy:         enemyPolicy,
	})
	if err != nil {
		return combat.OutcomeOngoing, err
	}
	defer engine.End(enc.ID)
	printResult(out, res)

	for !enc.Over() {
		if nextActor(enc) == enc.Player {
			res, err = enc.AutoPlayerTurn(playerPolicy, damage.Modifiers{})
		} else {
			res, err = enc.ProcessEnemyTurn(damage.Modifiers{})
		}
		if err != nil {
			return enc.Outcome(), fmt.Errorf("round %d: %w", enc.Round(), err)
		}
		printResult(out, res)
	}
	return enc.Outcome(), nil
}

// nextActor returns the side whose automatic turn is due.
func nextActor(enc *combat.Encounter) *combat.Combatant {
	cur := enc.Actor()
	if enc.Phase() != combat.PhaseEnd {
		return cur
	}
	if cur == enc.Player {
		return enc.Enemy
	}
	return enc.Player
}

func printResult(out io.Writer, res combat.TurnResult) {
	for _, l := range res.Log {
		fmt.Fprintln(out, l.String())
	}
	fmt.Fprintf(out, "  %s | %s\n", res.Player, res.Enemy)
}
