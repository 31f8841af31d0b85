package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKnockedOutMatchesDamage(t *testing.T) {
	for _, hp := range []int{0, 10, 60, 180} {
		for _, dmg := range []int{0, 10, 50, 60, 70, 200} {
			u := &Unit{Card: basic("X", hp, ElementFire), Damage: dmg}
			assert.Equal(t, dmg >= hp, u.IsKnockedOut(), "hp=%d damage=%d", hp, dmg)
			if dmg >= hp {
				assert.Equal(t, 0, u.RemainingHP())
			} else {
				assert.Equal(t, hp-dmg, u.RemainingHP())
			}
		}
	}
}

func TestCanPerformAttackCosts(t *testing.T) {
	atk := Attack{Name: "Flamethrower", Cost: []ElementType{ElementFire, ElementFire, ElementColorless}, Damage: 80}

	tests := []struct {
		name   string
		energy EnergyCounts
		want   bool
	}{
		{"exact colored plus colorless", counts(ElementFire, 2, ElementWater, 1), true},
		{"colored covers colorless", counts(ElementFire, 3), true},
		{"missing colored", counts(ElementFire, 1, ElementWater, 2), false},
		{"not enough for colorless", counts(ElementFire, 2), false},
		{"none", EnergyCounts{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &Unit{Card: basic("Charmeleon", 90, ElementFire), Energy: tt.energy}
			assert.Equal(t, tt.want, u.CanPerformAttack(atk))
		})
	}
}

func TestCanPerformAttackDoesNotSpendEnergy(t *testing.T) {
	u := &Unit{Card: basic("Pikachu", 60, ElementLightning), Energy: counts(ElementLightning, 2)}
	atk := Attack{Cost: []ElementType{ElementLightning, ElementLightning}}
	assert.True(t, u.CanPerformAttack(atk))
	assert.Equal(t, 2, u.Energy[ElementLightning])
}

func TestSleepAndParalysisBlockAttacks(t *testing.T) {
	free := Attack{Name: "Free"}
	for _, s := range []StatusCondition{StatusSleep, StatusParalysis} {
		u := &Unit{Card: basic("Snorlax", 150, ElementColorless), Energy: counts(ElementColorless, 5)}
		u.SetStatus(s, 1)
		assert.False(t, u.CanPerformAttack(free), s.String())
	}
	for _, s := range []StatusCondition{StatusNone, StatusPoison, StatusBurn, StatusConfusion} {
		u := &Unit{Card: basic("Snorlax", 150, ElementColorless)}
		u.SetStatus(s, 1)
		assert.True(t, u.CanPerformAttack(free), s.String())
	}
}

func TestCanRetreat(t *testing.T) {
	c := basic("Onix", 110, ElementFighting)
	c.RetreatCost = 3

	u := &Unit{Card: c, Energy: counts(ElementFighting, 2)}
	assert.False(t, u.CanRetreat())

	u.AttachEnergy(ElementWater)
	assert.True(t, u.CanRetreat())

	u.SetStatus(StatusParalysis, 2)
	assert.False(t, u.CanRetreat())

	u.SetStatus(StatusSleep, 2)
	assert.True(t, u.CanRetreat())
}

func TestCanEvolve(t *testing.T) {
	u := &Unit{Card: basic("Charmander", 60, ElementFire), TurnEntered: 1}
	assert.False(t, u.CanEvolve(1))
	assert.False(t, u.CanEvolve(2))
	assert.True(t, u.CanEvolve(3))

	u.TurnEntered = 3
	assert.False(t, u.CanEvolve(3))
	assert.True(t, u.CanEvolve(4))

	assert.True(t, u.CanEvolveInto(evolution("Charmeleon", "charmander", 90, ElementFire)))
	assert.False(t, u.CanEvolveInto(evolution("Ivysaur", "Bulbasaur", 90, ElementGrass)))
	assert.False(t, u.CanEvolveInto(basic("Vulpix", 50, ElementFire)))
}

func TestRemoveAnyEnergyUsesElementOrder(t *testing.T) {
	u := &Unit{Card: basic("Eevee", 60, ElementColorless), Energy: counts(ElementWater, 1, ElementGrass, 1)}
	e, ok := u.RemoveAnyEnergy()
	assert.True(t, ok)
	assert.Equal(t, ElementGrass, e)
	e, _ = u.RemoveAnyEnergy()
	assert.Equal(t, ElementWater, e)
	_, ok = u.RemoveAnyEnergy()
	assert.False(t, ok)
}

func TestWeaknessIsCaseInsensitive(t *testing.T) {
	c := basic("Bulbasaur", 70, ElementGrass)
	c.Weakness = "fire"
	u := &Unit{Card: c}
	assert.True(t, u.WeaknessApplies(ElementFire))
	assert.False(t, u.WeaknessApplies(ElementWater))

	c.Weakness = ""
	assert.False(t, u.WeaknessApplies(ElementColorless))
}

// counts builds EnergyCounts from element/count pairs.
func counts(pairs ...any) EnergyCounts {
	var ec EnergyCounts
	for i := 0; i+1 < len(pairs); i += 2 {
		ec[pairs[i].(ElementType)] += pairs[i+1].(int)
	}
	return ec
}
