package unit_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/autobattler/internal/game/unit"
)

func validTemplate() *unit.Template {
	return &unit.Template{
		ID:    "swordsman",
		Name:  "Swordsman",
		Role:  unit.RoleMeleeDPS,
		Cost:  2,
		Stats: unit.Stats{HP: 50, Atk: 10, AtkCount: 1, Armor: 2, Speed: 2, Initiative: 5, Dodge: 5},
		Range: 1,
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []unit.Role{
		unit.RoleTank, unit.RoleMeleeDPS, unit.RoleRangedDPS,
		unit.RoleMage, unit.RoleSupport, unit.RoleControl,
	} {
		assert.True(t, r.Valid(), "role %q", r)
	}
	assert.False(t, unit.Role("paladin").Valid())
	assert.False(t, unit.Role("").Valid())
}

func TestTemplate_Validate(t *testing.T) {
	assert.NoError(t, validTemplate().Validate())

	tpl := validTemplate()
	tpl.ID = ""
	assert.Error(t, tpl.Validate())

	tpl = validTemplate()
	tpl.Role = "paladin"
	assert.Error(t, tpl.Validate())

	tpl = validTemplate()
	tpl.Stats.HP = 0
	assert.Error(t, tpl.Validate())

	tpl = validTemplate()
	tpl.Stats.AtkCount = 0
	assert.Error(t, tpl.Validate())

	tpl = validTemplate()
	tpl.Range = 0
	assert.Error(t, tpl.Validate())
}

func TestRegistry_All_SortedByID(t *testing.T) {
	reg := unit.NewRegistry()
	for _, id := range []string{"zealot", "archer", "mage"} {
		tpl := validTemplate()
		tpl.ID = id
		reg.Register(tpl)
	}
	all := reg.All()
	require.Len(t, all, 3)
	assert.Equal(t, "archer", all[0].ID)
	assert.Equal(t, "mage", all[1].ID)
	assert.Equal(t, "zealot", all[2].ID)
}

func TestRegistry_GetAndOverwrite(t *testing.T) {
	reg := unit.NewRegistry()
	tpl := validTemplate()
	reg.Register(tpl)

	got, ok := reg.Get("swordsman")
	require.True(t, ok)
	assert.Equal(t, tpl, got)

	_, ok = reg.Get("absent")
	assert.False(t, ok)

	replacement := validTemplate()
	replacement.Cost = 9
	reg.Register(replacement)
	got, ok = reg.Get("swordsman")
	require.True(t, ok)
	assert.Equal(t, 9, got.Cost)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`
id: pikeman
name: Pikeman
role: melee_dps
cost: 2
stats:
  hp: 60
  atk: 12
  atk_count: 1
  armor: 3
  speed: 2
  initiative: 4
  dodge: 5
range: 2
abilities:
  - taunt_shout
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pikeman.yaml"), data, 0o600))

	reg, err := unit.LoadDirectory(dir)
	require.NoError(t, err)
	tpl, ok := reg.Get("pikeman")
	require.True(t, ok)
	assert.Equal(t, unit.RoleMeleeDPS, tpl.Role)
	assert.Equal(t, 60, tpl.Stats.HP)
	assert.Equal(t, 2, tpl.Range)
	assert.Equal(t, []string{"taunt_shout"}, tpl.Abilities)
}

func TestLoadDirectory_RejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	data := []byte("id: pikeman\nname: Pikeman\nrole: melee_dps\nmana: 10\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pikeman.yaml"), data, 0o600))

	_, err := unit.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectory_RejectsInvalidTemplate(t *testing.T) {
	dir := t.TempDir()
	data := []byte("id: ghost\nname: Ghost\nrole: mage\nstats:\n  hp: 0\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ghost.yaml"), data, 0o600))

	_, err := unit.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestDefaultRegistry(t *testing.T) {
	reg := unit.DefaultRegistry()
	for _, id := range []string{"knight", "berserker", "archer", "mage", "cleric", "enchanter", "skeleton"} {
		tpl, ok := reg.Get(id)
		require.True(t, ok, "missing default template %q", id)
		assert.NoError(t, tpl.Validate(), "default template %q", id)
	}
}
