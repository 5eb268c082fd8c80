package task

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	def := Definition{
		Name:        "GasConfigTemplate",
		Version:     semver.MustParse("1.2.0"),
		Description: "updates L2 gas limits",
	}

	reg := NewRegistry()
	require.NoError(t, reg.Register(def, func() (Template, error) {
		return &fakeTemplate{taskType: TaskTypeL2}, nil
	}))

	t.Run("new instantiates a template", func(t *testing.T) {
		tmpl, err := reg.New("GasConfigTemplate")
		require.NoError(t, err)
		require.Equal(t, TaskTypeL2, tmpl.TaskType())
	})

	t.Run("definition round trips", func(t *testing.T) {
		got, err := reg.Definition("GasConfigTemplate")
		require.NoError(t, err)
		require.Equal(t, def, got)
		require.Equal(t, "1.2.0", got.Version.String())
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := reg.New("Unknown")
		require.ErrorIs(t, err, ErrTemplateNotFound)

		_, err = reg.Definition("Unknown")
		require.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		err := reg.Register(def, func() (Template, error) { return nil, nil })
		require.ErrorContains(t, err, "already registered")
	})

	t.Run("empty name", func(t *testing.T) {
		err := reg.Register(Definition{}, func() (Template, error) { return nil, nil })
		require.ErrorIs(t, err, ErrMissingField)
	})
}

func TestTaskType_Valid(t *testing.T) {
	t.Parallel()

	require.True(t, TaskTypeSimple.Valid())
	require.True(t, TaskTypeL2.Valid())
	require.True(t, TaskTypeOpcm.Valid())
	require.False(t, TaskType("bogus").Valid())
	require.False(t, TaskType("").Valid())
}
