package services

import (
	"context"
	"testing"

	"oraculo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExactMatchValidator(t *testing.T) {
	v := ExactMatchValidator{}
	ctx := context.Background()

	text := &models.Challenge{ChallengeType: models.ChallengeTypeText, ExpectedAnswer: "Reiniciar o roteador"}
	ok, err := v.Validate(ctx, text, "  reiniciar o ROTEADOR ")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Validate(ctx, text, "desligar o roteador")
	require.NoError(t, err)
	assert.False(t, ok)

	// Code answers are case sensitive
	code := &models.Challenge{ChallengeType: models.ChallengeTypeCode, ExpectedAnswer: "ping -c 4 host"}
	ok, err = v.Validate(ctx, code, "PING -C 4 HOST")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = v.Validate(ctx, code, "ping -c 4 host")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStoredHintGenerator(t *testing.T) {
	g := StoredHintGenerator{}
	ctx := context.Background()

	hint, err := g.GenerateHint(ctx, &models.Challenge{Hint: "verifique o cabo"}, 2)
	require.NoError(t, err)
	assert.Equal(t, "verifique o cabo", hint)

	_, err = g.GenerateHint(ctx, &models.Challenge{}, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}
