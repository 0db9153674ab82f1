package shield

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flipforge/dealshield/internal/model"
)

func TestPresent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "BUY", Present(model.VerdictBuy).Label)
	assert.Equal(t, "red", Present(model.VerdictPass).Tone)
	assert.Equal(t, Present(model.VerdictConditional), Present("MAYBE"))
	assert.Equal(t, Present(model.VerdictConditional), Present(""))
}

func TestStrategyName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Flip", StrategyName(model.StrategyFlip))
	assert.Equal(t, "BRRRR", StrategyName(model.StrategyBRRRR))
	assert.Equal(t, "Wholesale", StrategyName(model.StrategyWholesale))
	assert.Equal(t, "Wholesale", StrategyName("other"))
}
