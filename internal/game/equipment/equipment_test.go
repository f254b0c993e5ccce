package equipment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polishedworld/simcore/internal/game/equipment"
)

func TestLoadout_Empty(t *testing.T) {
	l := equipment.NewLoadout()
	assert.Equal(t, 0, l.TotalWarmth())
	assert.Empty(t, l.ProtectionTags())
	assert.Equal(t, 0, l.Count())
}

func TestLoadout_WearAndRemove(t *testing.T) {
	l := equipment.NewLoadout()
	coat := equipment.NewItem("wool coat", "torso", 15)
	prev := l.Wear(coat)
	assert.Nil(t, prev)
	assert.Equal(t, coat, l.Worn("torso"))
	assert.Equal(t, 15, l.TotalWarmth())

	removed := l.Remove("torso")
	assert.Equal(t, coat, removed)
	assert.Equal(t, 0, l.TotalWarmth())
	assert.Nil(t, l.Remove("torso"))
}

func TestLoadout_WearReplacesSlot(t *testing.T) {
	l := equipment.NewLoadout()
	light := equipment.NewItem("linen shirt", "torso", 2)
	heavy := equipment.NewItem("fur coat", "torso", 20)
	l.Wear(light)
	displaced := l.Wear(heavy)
	assert.Equal(t, light, displaced)
	assert.Equal(t, 20, l.TotalWarmth())
	assert.Equal(t, 1, l.Count())
}

func TestLoadout_TotalWarmthSums(t *testing.T) {
	l := equipment.NewLoadout()
	l.Wear(equipment.NewItem("fur coat", "torso", 20))
	l.Wear(equipment.NewItem("wool hat", "head", 5))
	l.Wear(equipment.NewItem("boots", "feet", 8))
	assert.Equal(t, 33, l.TotalWarmth())
}

func TestLoadout_ProtectionTagsUnion(t *testing.T) {
	l := equipment.NewLoadout()
	cloak := equipment.NewItem("oilskin cloak", "back", 5)
	cloak.ProtectionTags = []string{equipment.ProtectRain, equipment.ProtectWind}
	hood := equipment.NewItem("fur hood", "head", 6)
	hood.ProtectionTags = []string{equipment.ProtectSnow, equipment.ProtectWind}
	l.Wear(cloak)
	l.Wear(hood)

	tags := l.ProtectionTags()
	require.Len(t, tags, 3)
	assert.True(t, tags[equipment.ProtectRain])
	assert.True(t, tags[equipment.ProtectSnow])
	assert.True(t, tags[equipment.ProtectWind])
}

func TestLoadout_StatModifier(t *testing.T) {
	l := equipment.NewLoadout()
	gloves := equipment.NewItem("work gloves", "hands", 3)
	gloves.StatModifiers["dexterity"] = 1
	belt := equipment.NewItem("tool belt", "waist", 0)
	belt.StatModifiers["dexterity"] = 2
	l.Wear(gloves)
	l.Wear(belt)
	assert.Equal(t, 3, l.StatModifier("dexterity"))
	assert.Equal(t, 0, l.StatModifier("strength"))
}
