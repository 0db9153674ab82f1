package shield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flipforge/dealshield/internal/model"
)

func scenario(name string, v model.Verdict) model.StressTestScenario {
	return model.StressTestScenario{Name: name, Verdict: v}
}

func TestFirstBreak(t *testing.T) {
	t.Parallel()

	scenarios := []model.StressTestScenario{
		scenario("ARV -5%", model.VerdictBuy),
		scenario("Rehab +20%", model.VerdictConditional),
		scenario("Rent Crash", model.VerdictPass),
	}

	got := FirstBreak(scenarios)
	require.NotNil(t, got)
	assert.Equal(t, "Rehab +20%", got.Name, "first non-BUY wins, not the worst")
	assert.Equal(t, model.VerdictConditional, got.Verdict)
}

func TestFirstBreak_None(t *testing.T) {
	t.Parallel()

	assert.Nil(t, FirstBreak(nil))
	assert.Nil(t, FirstBreak([]model.StressTestScenario{
		scenario("a", model.VerdictBuy),
		scenario("b", model.VerdictBuy),
	}))
}

func TestFirstBreak_ReturnsCopy(t *testing.T) {
	t.Parallel()

	scenarios := []model.StressTestScenario{scenario("a", model.VerdictPass)}
	got := FirstBreak(scenarios)
	require.NotNil(t, got)
	got.Name = "changed"
	assert.Equal(t, "a", scenarios[0].Name)
}

func TestStress(t *testing.T) {
	t.Parallel()

	notRun := Stress(nil)
	assert.Equal(t, StressNotRun, notRun.State)
	assert.Equal(t, "No stress scenarios supplied.", notRun.Message())

	holds := Stress([]model.StressTestScenario{scenario("a", model.VerdictBuy)})
	assert.Equal(t, StressHolds, holds.State)
	assert.Nil(t, holds.FirstBreak)
	assert.Equal(t, "Holds under all supplied stress scenarios.", holds.Message())

	breaks := Stress([]model.StressTestScenario{scenario("Rent Crash", model.VerdictConditional)})
	assert.Equal(t, StressBreaks, breaks.State)
	assert.Equal(t, `Breaks under "Rent Crash" stress (CONDITIONAL).`, breaks.Message())
}

func TestBadge(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Badge(nil))

	holds := Badge(&model.Breakpoints{})
	require.NotNil(t, holds)
	assert.Equal(t, "Holds under mild stress", holds.Text)
	assert.False(t, holds.Fragile)

	name := "Rehab +30%"
	breaks := Badge(&model.Breakpoints{FirstBreakScenario: &name, IsFragile: true})
	require.NotNil(t, breaks)
	assert.Equal(t, "Rehab +30%", breaks.Text)
	assert.True(t, breaks.Fragile)
}

func TestFirstBreakIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		scenarios []model.StressTestScenario
		want      int
	}{
		{"empty", nil, -1},
		{"all hold", []model.StressTestScenario{scenario("a", model.VerdictBuy)}, -1},
		{"first", []model.StressTestScenario{scenario("a", model.VerdictPass), scenario("b", model.VerdictBuy)}, 0},
		{"later", []model.StressTestScenario{scenario("a", model.VerdictBuy), scenario("b", model.VerdictBuy), scenario("c", model.VerdictConditional)}, 2},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FirstBreakIndex(tt.scenarios))
		})
	}
}
