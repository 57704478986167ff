package item

// Item ids of the built-in catalogue.
const (
	DamageBoost       = "damage_boost"
	RapidFire         = "rapid_fire"
	ExtendedMag       = "extended_mag"
	MaxHealthUp       = "max_health_up"
	SpeedBoost        = "speed_boost"
	QuickReload       = "quick_reload"
	BulletSpeedUp     = "bullet_speed_up"
	Medkit            = "medkit"
	AmmoBox           = "ammo_box"
	SmallHealthPotion = "small_health_potion"
	LargeHealthPotion = "large_health_potion"
	Rifle             = "rifle"
	Shotgun           = "shotgun"
	Smg               = "smg"
	Sniper            = "sniper"
	Coin              = "coin"
	Key               = "key"
	Pistol            = "pistol"
)

func passive(id, name string, edit func(*Modifiers)) *Def {
	m := Identity()
	edit(&m)
	return &Def{ID: id, Name: name, Kind: KindPassive, Modifiers: &m}
}

func weapon(id, name string, ws WeaponStats) *Def {
	return &Def{ID: id, Name: name, Kind: KindWeapon, Weapon: &ws}
}

// Builtin returns the standard catalogue. The first seventeen entries form
// the random pool in roll order; the pistol is only handed out by start
// rooms.
func Builtin() *Catalog {
	random := []*Def{
		passive(DamageBoost, "Damage Boost", func(m *Modifiers) { m.Damage = 1.2 }),
		passive(RapidFire, "Rapid Fire", func(m *Modifiers) { m.FireRate = 0.8 }),
		passive(ExtendedMag, "Extended Magazine", func(m *Modifiers) { m.Magazine = 1.2 }),
		passive(MaxHealthUp, "Heart Container", func(m *Modifiers) { m.MaxHealthBonus = 2 }),
		passive(SpeedBoost, "Swift Boots", func(m *Modifiers) { m.Speed = 1.2 }),
		passive(QuickReload, "Quick Reload", func(m *Modifiers) { m.ReloadTime = 0.8 }),
		passive(BulletSpeedUp, "Hot Loads", func(m *Modifiers) { m.BulletSpeed = 1.2 }),
		{ID: Medkit, Name: "Medkit", Kind: KindActive, Active: &ActiveStats{Effect: EffectHeal, Amount: 5, Cooldown: 30}},
		{ID: AmmoBox, Name: "Ammo Box", Kind: KindActive, Active: &ActiveStats{Effect: EffectRefillAmmo, Cooldown: 45}},
		{ID: SmallHealthPotion, Name: "Small Health Potion", Kind: KindConsumable, Heal: 1},
		{ID: LargeHealthPotion, Name: "Large Health Potion", Kind: KindConsumable, Heal: 10},
		weapon(Rifle, "Rifle", WeaponStats{Cooldown: 0.075, BulletSpeed: 600, Damage: 2, Magazine: 30, ReloadTime: 1.8, Automatic: true}),
		weapon(Shotgun, "Shotgun", WeaponStats{Cooldown: 0.25, BulletSpeed: 500, Damage: 4, Magazine: 6, ReloadTime: 2}),
		weapon(Smg, "SMG", WeaponStats{Cooldown: 0.075, BulletSpeed: 500, Damage: 1, Magazine: 30, ReloadTime: 1.4, Automatic: true}),
		weapon(Sniper, "Sniper Rifle", WeaponStats{Cooldown: 0.5, BulletSpeed: 1000, Damage: 5, Magazine: 5, ReloadTime: 2}),
		{ID: Coin, Name: "Coin", Kind: KindCurrency, Currency: CurrencyCoin, Amount: 1},
		{ID: Key, Name: "Key", Kind: KindCurrency, Currency: CurrencyKey, Amount: 1},
	}
	c := NewCatalog()
	for _, d := range random {
		if err := c.Register(d, true); err != nil {
			panic(err)
		}
	}
	pistol := weapon(Pistol, "Pistol", WeaponStats{Cooldown: 0.1, BulletSpeed: 500, Damage: 1, Magazine: 7, ReloadTime: 1})
	if err := c.Register(pistol, false); err != nil {
		panic(err)
	}
	return c
}
