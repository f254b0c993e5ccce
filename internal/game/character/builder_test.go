package character_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/polishedworld/simcore/internal/config"
	"github.com/polishedworld/simcore/internal/game/character"
	"github.com/polishedworld/simcore/internal/game/dice"
	"github.com/polishedworld/simcore/internal/game/equipment"
	"github.com/polishedworld/simcore/internal/game/trait"
)

func survivalDefaults() config.SurvivalConfig {
	return config.Default().Survival
}

func TestBuild_EmptyNameRejected(t *testing.T) {
	_, err := character.Build("", survivalDefaults())
	assert.Error(t, err)
}

func TestBuild_GaugesStartFull(t *testing.T) {
	c, err := character.Build("Wren", survivalDefaults())
	require.NoError(t, err)
	for _, kind := range trait.Kinds {
		g := c.Gauge(kind)
		require.NotNil(t, g, "gauge %s", kind)
		assert.Equal(t, 100.0, g.Current(), "gauge %s", kind)
	}
}

func TestBuild_Options(t *testing.T) {
	coat := equipment.NewItem("fur coat", "torso", 20)
	c, err := character.Build("Wren", survivalDefaults(),
		character.WithStats(character.Stats{Constitution: 14, Strength: 12}),
		character.WithSkill("foraging", 35),
		character.WithEquipment(coat),
	)
	require.NoError(t, err)
	assert.Equal(t, 14, c.Stats.Constitution)
	assert.Equal(t, 35, c.Skill("foraging"))
	assert.Equal(t, 20, c.TotalWarmth())
}

func TestBuild_WithRolledStats(t *testing.T) {
	src := dice.NewSeededSource(11)
	c, err := character.Build("Wren", survivalDefaults(),
		character.WithRolledStats(src),
	)
	require.NoError(t, err)
	for _, score := range []int{
		c.Stats.Strength, c.Stats.Dexterity, c.Stats.Constitution,
		c.Stats.Intelligence, c.Stats.Wisdom, c.Stats.Charisma,
	} {
		assert.GreaterOrEqual(t, score, 3)
		assert.LessOrEqual(t, score, 18)
	}
}

func TestCharacter_GainSkill_CapsAt100(t *testing.T) {
	c := character.New("Wren", survivalDefaults())
	c.SetSkill("foraging", 98)
	level := c.GainSkill("foraging", 5)
	assert.Equal(t, 100, level)
	assert.Equal(t, 100, c.Skill("foraging"))
}

func TestCharacter_SetSkill_Clamps(t *testing.T) {
	c := character.New("Wren", survivalDefaults())
	c.SetSkill("foraging", -10)
	assert.Equal(t, 0, c.Skill("foraging"))
	c.SetSkill("foraging", 500)
	assert.Equal(t, 100, c.Skill("foraging"))
}

func TestCharacter_Notify_NoSinkIsSafe(t *testing.T) {
	c := character.New("Wren", survivalDefaults())
	assert.NotPanics(t, func() { c.Notify("you feel chilly") })
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(text string) {
	r.messages = append(r.messages, text)
}

func TestCharacter_Notify_DeliversToSink(t *testing.T) {
	c := character.New("Wren", survivalDefaults())
	sink := &recordingNotifier{}
	c.SetNotifier(sink)
	c.Notify("you feel chilly")
	assert.Equal(t, []string{"you feel chilly"}, sink.messages)
}

func TestCharacter_ApplyCooldown_CombinesSkillAndConstitution(t *testing.T) {
	c := character.New("Wren", survivalDefaults())
	c.SetSkill("foraging", 80)
	c.Stats.Constitution = 14

	d := c.ApplyCooldown("forage", 300*time.Second, "foraging", 0.01)

	assert.Equal(t, 172*time.Second, d)
	assert.False(t, c.Cooldowns.Ready("forage"))
}

func TestBonusRatio(t *testing.T) {
	assert.Equal(t, 0.0, character.BonusRatio(10, 0.01))
	assert.Equal(t, 0.0, character.BonusRatio(8, 0.01))
	assert.InDelta(t, 0.04, character.BonusRatio(14, 0.01), 1e-9)
}

// TestSkill_NeverEscapesRange_Property verifies arbitrary gain sequences
// keep skills within [0, 100].
func TestSkill_NeverEscapesRange_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := character.New("Wren", survivalDefaults())
		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			c.GainSkill("foraging", rapid.IntRange(0, 60).Draw(rt, "gain"))
			level := c.Skill("foraging")
			if level < 0 || level > 100 {
				rt.Fatalf("skill escaped range: %d", level)
			}
		}
	})
}
