package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func stepNames(steps []step) []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.name
	}
	return names
}

func TestStepOrder(t *testing.T) {
	assert.Equal(t, []string{"users", "types", "links", "forms", "pages", "tickets"}, stepNames(migrationSteps))
	assert.Equal(t, []string{"system user", "types", "demo group"}, stepNames(seedSteps))
}

func TestRunStepsStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	var ran []string
	record := func(name string, err error) step {
		return step{name, func(*gorm.DB) error {
			ran = append(ran, name)
			return err
		}}
	}

	err := runSteps(nil, "seed", []step{record("a", nil), record("b", boom), record("c", nil)})
	require.ErrorIs(t, err, boom)
	assert.EqualError(t, err, "seed b: boom")
	assert.Equal(t, []string{"a", "b"}, ran)
}

func TestInitializeWithoutFlagsIsNoOp(t *testing.T) {
	assert.NoError(t, Initialize(nil, false, false))
}
