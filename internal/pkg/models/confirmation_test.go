package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmationStageOrder(t *testing.T) {
	stages := ConfirmationStages()
	require.Equal(t, []ConfirmationStage{
		StagePaymentComplete,
		StageContractSigning,
		StageCredentialReveal,
		StageAccessConfirmation,
		StageTransactionComplete,
	}, stages)

	for i, stage := range stages {
		assert.Equal(t, i, stage.Index())
	}
}

func TestConfirmationStagePrev(t *testing.T) {
	_, ok := StagePaymentComplete.Prev()
	assert.False(t, ok)

	prev, ok := StageCredentialReveal.Prev()
	require.True(t, ok)
	assert.Equal(t, StageContractSigning, prev)

	_, ok = ConfirmationStage("bogus").Prev()
	assert.False(t, ok)
}

func TestParseConfirmationStage(t *testing.T) {
	stage, err := ParseConfirmationStage("access_confirmation")
	require.NoError(t, err)
	assert.Equal(t, StageAccessConfirmation, stage)

	_, err = ParseConfirmationStage("payment")
	assert.Error(t, err)
}
