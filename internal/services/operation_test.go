package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casperstation/operations-api-service/internal/types"
)

func TestParseOperationFilter(t *testing.T) {
	filter, svcErr := parseOperationFilter("", "")
	require.Nil(t, svcErr)
	assert.Nil(t, filter.Kind)
	assert.Nil(t, filter.State)

	filter, svcErr = parseOperationFilter("stake", "")
	require.Nil(t, svcErr)
	require.NotNil(t, filter.Kind)
	assert.Equal(t, types.KindStake, *filter.Kind)
	assert.Nil(t, filter.State)

	filter, svcErr = parseOperationFilter("bridge", "minting")
	require.Nil(t, svcErr)
	require.NotNil(t, filter.Kind)
	require.NotNil(t, filter.State)
	assert.Equal(t, types.KindBridge, *filter.Kind)
	assert.Equal(t, types.Minting, *filter.State)
}

func TestParseOperationFilterRejectsUnknownValues(t *testing.T) {
	_, svcErr := parseOperationFilter("swap", "")
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.Equal(t, types.BadRequest, svcErr.ErrorCode)

	_, svcErr = parseOperationFilter("", "done")
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.Equal(t, types.BadRequest, svcErr.ErrorCode)
}
