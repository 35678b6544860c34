package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tanks/internal/scenario"
)

func fixed(s scenario.Scenario) Factory {
	return func() (scenario.Scenario, error) { return s, nil }
}

func TestRegisterAndCreate(t *testing.T) {
	Register("zz-test-b", fixed(scenario.Scenario{ID: "zz-test-b", Name: "B", Actors: make([]scenario.Actor, 2)}))
	Register("zz-test-a", fixed(scenario.Scenario{ID: "zz-test-a", Name: "A", Description: "first"}))

	assert.True(t, Exists("zz-test-a"))
	assert.False(t, Exists("zz-missing"))

	var found []Info
	for _, info := range List() {
		if info.ID == "zz-test-a" || info.ID == "zz-test-b" {
			found = append(found, info)
		}
	}
	assert.Equal(t, []Info{
		{ID: "zz-test-a", Name: "A", Description: "first"},
		{ID: "zz-test-b", Name: "B", Actors: 2},
	}, found)

	s, err := Create("zz-test-b")
	require.NoError(t, err)
	assert.Equal(t, "B", s.Name)

	_, err = Create("zz-missing")
	assert.Error(t, err)
}

func TestRegisterPanics(t *testing.T) {
	Register("zz-test-dup", fixed(scenario.Scenario{ID: "zz-test-dup"}))
	assert.Panics(t, func() {
		Register("zz-test-dup", fixed(scenario.Scenario{ID: "zz-test-dup"}))
	})
	assert.Panics(t, func() {
		Register("zz-test-broken", func() (scenario.Scenario, error) {
			return scenario.Scenario{}, errors.New("corrupt")
		})
	})
	assert.False(t, Exists("zz-test-broken"))
}
