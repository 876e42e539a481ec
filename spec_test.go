package schemaup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatest(t *testing.T) {
	t.Run("explicit", func(t *testing.T) {
		spec := &SchemaSpec{LatestVersion: 7, Upgrades: map[int][]string{2: {"x"}}}
		assert.Equal(t, 7, spec.Latest())
	})

	t.Run("derived from upgrades", func(t *testing.T) {
		spec := &SchemaSpec{Upgrades: map[int][]string{1: {"a"}, 3: {"c"}, 2: {"b"}}}
		assert.Equal(t, 3, spec.Latest())
	})

	t.Run("default", func(t *testing.T) {
		spec := &SchemaSpec{Install: []string{"CREATE TABLE t (id INT)"}}
		assert.Equal(t, 1, spec.Latest())
	})
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name        string
		spec        *SchemaSpec
		errContains string
	}{
		{
			name: "valid",
			spec: &SchemaSpec{
				LatestVersion: 2,
				Install:       []string{"CREATE TABLE t (id INT)"},
				InstallAt:     map[int][]string{1: {"CREATE TABLE t (id INT)"}},
				Upgrades:      map[int][]string{2: {"DROP TABLE t"}},
			},
		},
		{name: "empty", spec: &SchemaSpec{}},
		{
			name:        "negative latest version",
			spec:        &SchemaSpec{LatestVersion: -1},
			errContains: "negative latest version",
		},
		{
			name:        "upgrade version zero",
			spec:        &SchemaSpec{Upgrades: map[int][]string{0: {"x"}}},
			errContains: "versions start at 1",
		},
		{
			name:        "empty upgrade",
			spec:        &SchemaSpec{Upgrades: map[int][]string{2: {}}},
			errContains: "no statements",
		},
		{
			// Pinning LatestVersion below defined upgrades holds the
			// database at an intermediate version; it is not an error.
			name: "latest pinned below highest upgrade",
			spec: &SchemaSpec{LatestVersion: 2, Upgrades: map[int][]string{3: {"x"}}},
		},
		{
			name:        "install version zero",
			spec:        &SchemaSpec{InstallAt: map[int][]string{0: {"x"}}},
			errContains: "versions start at 1",
		},
		{
			name:        "empty install at version",
			spec:        &SchemaSpec{InstallAt: map[int][]string{1: {}}},
			errContains: "no statements",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.spec.Validate()
			if tc.errContains == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)
			var specErr *SpecError
			assert.ErrorAs(t, err, &specErr)
		})
	}
}

func TestStepFrom(t *testing.T) {
	spec := &SchemaSpec{
		LatestVersion: 3,
		Install:       []string{"install-a", "install-b"},
		InstallAt:     map[int][]string{1: {"at1-a"}},
		Upgrades: map[int][]string{
			1: {"up1-a"},
			2: {"up2-a", "up2-b"},
			3: {"up3-a"},
		},
	}

	t.Run("virgin bootstrap override", func(t *testing.T) {
		step, err := spec.stepFrom(0, 1)
		require.NoError(t, err)
		require.NotNil(t, step)
		assert.Equal(t, 1, step.Version)
		assert.Equal(t, []string{"at1-a"}, step.Statements)
		assert.True(t, step.CreateMeta)
	})

	t.Run("virgin bootstrap override missing", func(t *testing.T) {
		step, err := spec.stepFrom(0, 2)
		assert.Nil(t, step)
		require.Error(t, err)
		assert.IsType(t, &SpecError{}, err)
		assert.Contains(t, err.Error(), "no install script")
	})

	t.Run("virgin direct install wins over upgrade to 1", func(t *testing.T) {
		step, err := spec.stepFrom(0, 0)
		require.NoError(t, err)
		require.NotNil(t, step)
		assert.Equal(t, 3, step.Version)
		assert.Equal(t, []string{"install-a", "install-b"}, step.Statements)
		assert.True(t, step.CreateMeta)
	})

	t.Run("virgin falls back to upgrade to 1", func(t *testing.T) {
		incremental := &SchemaSpec{LatestVersion: 3, Upgrades: spec.Upgrades}
		step, err := incremental.stepFrom(0, 0)
		require.NoError(t, err)
		require.NotNil(t, step)
		assert.Equal(t, 1, step.Version)
		assert.Equal(t, []string{"up1-a"}, step.Statements)
		assert.True(t, step.CreateMeta)
	})

	t.Run("virgin with no install path", func(t *testing.T) {
		bare := &SchemaSpec{LatestVersion: 2, Upgrades: map[int][]string{2: {"x"}}}
		step, err := bare.stepFrom(0, 0)
		assert.Nil(t, step)
		require.Error(t, err)
		assert.IsType(t, &SpecError{}, err)
		assert.Contains(t, err.Error(), "cannot install")
	})

	t.Run("incremental", func(t *testing.T) {
		step, err := spec.stepFrom(1, 0)
		require.NoError(t, err)
		require.NotNil(t, step)
		assert.Equal(t, 2, step.Version)
		assert.Equal(t, []string{"up2-a", "up2-b"}, step.Statements)
		assert.False(t, step.CreateMeta)
	})

	t.Run("incremental missing upgrade step", func(t *testing.T) {
		gappy := &SchemaSpec{LatestVersion: 3, Upgrades: map[int][]string{1: {"a"}, 3: {"c"}}}
		step, err := gappy.stepFrom(1, 0)
		assert.Nil(t, step)
		require.Error(t, err)
		assert.IsType(t, &SpecError{}, err)
		assert.Contains(t, err.Error(), "from version 1 to 2")
	})

	t.Run("already at latest", func(t *testing.T) {
		step, err := spec.stepFrom(3, 0)
		assert.NoError(t, err)
		assert.Nil(t, step)
	})

	t.Run("newer than spec", func(t *testing.T) {
		step, err := spec.stepFrom(5, 0)
		assert.Nil(t, step)
		require.Error(t, err)
		assert.NotErrorAs(t, err, new(*SpecError))
		assert.Contains(t, err.Error(), "only describes up to version 3")
	})
}
