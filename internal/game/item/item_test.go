package item_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/roguehammer/internal/game/dice"
	"github.com/cory-johannsen/roguehammer/internal/game/geom"
	"github.com/cory-johannsen/roguehammer/internal/game/item"
)

type fixedSource struct{ val int }

func (f fixedSource) Intn(n int) int { return f.val % n }

func TestBuiltin_RandomPoolOrder(t *testing.T) {
	c := item.Builtin()
	assert.Equal(t, item.DamageBoost, c.Random(fixedSource{0}).ID)
	assert.Equal(t, item.Rifle, c.Random(fixedSource{11}).ID)
	assert.Equal(t, item.Key, c.Random(fixedSource{16}).ID)
	assert.Equal(t, item.DamageBoost, c.Random(fixedSource{17}).ID, "the pistol is not in the random pool")
	assert.Len(t, c.All(), 18)
}

func TestBuiltin_AllValid(t *testing.T) {
	for _, d := range item.Builtin().All() {
		assert.NoError(t, d.Validate(), d.ID)
	}
}

func TestModifiers_CombineIsOrderIndependent(t *testing.T) {
	c := item.Builtin()
	var passives []item.Modifiers
	for _, d := range c.All() {
		if d.Kind == item.KindPassive {
			passives = append(passives, *d.Modifiers)
		}
	}
	rapid.Check(t, func(rt *rapid.T) {
		perm := rapid.Permutation(passives).Draw(rt, "perm")
		a, b := item.Identity(), item.Identity()
		for i := range passives {
			a = a.Combine(passives[i])
			b = b.Combine(perm[i])
		}
		assert.InDelta(rt, a.Speed, b.Speed, 1e-9)
		assert.InDelta(rt, a.Damage, b.Damage, 1e-9)
		assert.Equal(rt, a.MaxHealthBonus, b.MaxHealthBonus)
	})
}

func TestRegister_RejectsDuplicatesAndInvalid(t *testing.T) {
	c := item.NewCatalog()
	require.NoError(t, c.Register(&item.Def{ID: "c", Name: "C", Kind: item.KindCurrency, Currency: item.CurrencyCoin, Amount: 1}, true))
	assert.Error(t, c.Register(&item.Def{ID: "c", Name: "C", Kind: item.KindCurrency, Currency: item.CurrencyCoin, Amount: 1}, true))
	assert.Error(t, c.Register(&item.Def{ID: "w", Name: "W", Kind: item.KindWeapon}, true))
	assert.Error(t, c.Register(&item.Def{ID: "x", Name: "X", Kind: "junk"}, true))
}

func TestRandomOfKind(t *testing.T) {
	c := item.Builtin()
	d := c.RandomOfKind(dice.NewSeededSource(3), item.KindConsumable, 1000)
	require.NotNil(t, d)
	assert.Equal(t, item.KindConsumable, d.Kind)
	assert.Nil(t, c.RandomOfKind(fixedSource{0}, item.KindConsumable, 5))
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.yaml")
	data := []byte(`
items:
  - id: glass_cannon
    name: Glass Cannon
    kind: passive
    modifiers:
      damage: 2
  - id: blaster
    name: Blaster
    kind: weapon
    random: false
    weapon: {cooldown: 0.2, bullet_speed: 700, damage: 3, magazine: 10, reload_time: 1}
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	c, err := item.LoadCatalog(path)
	require.NoError(t, err)
	gc, ok := c.Get("glass_cannon")
	require.True(t, ok)
	assert.Equal(t, 2.0, gc.Modifiers.Damage)
	assert.Equal(t, 1.0, gc.Modifiers.Speed, "unset multipliers default to 1")
	assert.Equal(t, "glass_cannon", c.Random(fixedSource{5}).ID, "only glass_cannon is random-eligible")
}

func TestLoadCatalog_Errors(t *testing.T) {
	_, err := item.LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	_, err = item.LoadCatalogBytes([]byte("items:\n  - {id: a, name: A, kind: consumable, heal: 1, random: false}\n"))
	assert.Error(t, err, "a catalog needs at least one random item")
}

func TestPickup(t *testing.T) {
	p := item.NewPickup(item.Builtin().MustGet(item.Coin), geom.V(100, 100))
	assert.NotEmpty(t, p.ID)
	assert.True(t, p.Bounds(64).Contains(geom.V(110, 90)))
	assert.True(t, item.Builtin().MustGet(item.Medkit).IsUnique())
	assert.False(t, item.Builtin().MustGet(item.Coin).IsUnique())
}
