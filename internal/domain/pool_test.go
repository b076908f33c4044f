package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/alejandrodnm/turfflux/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifier_NumbersAndStrings(t *testing.T) {
	var c domain.Combination
	require.NoError(t, json.Unmarshal([]byte(`[7, "12", 3.0]`), &c))
	require.Len(t, c, 3)
	assert.Equal(t, domain.Identifier("7"), c[0])
	assert.Equal(t, domain.Identifier("12"), c[1])
	assert.Equal(t, domain.Identifier("3"), c[2])
}

func TestIdentifier_HugeNumberKeepsText(t *testing.T) {
	var c domain.Combination
	require.NoError(t, json.Unmarshal([]byte(`[1e30, -1e30]`), &c))
	require.Len(t, c, 2)
	assert.Equal(t, domain.Identifier("1e30"), c[0])
	assert.Equal(t, domain.Identifier("-1e30"), c[1])
}

func TestCombination_LeadEmpty(t *testing.T) {
	assert.Equal(t, domain.Identifier(""), domain.Combination{}.Lead())
	assert.Equal(t, domain.Identifier("4"), domain.Combination{"4", "9"}.Lead())
}

func TestPoolSnapshot_Usable(t *testing.T) {
	assert.False(t, domain.EmptySnapshot(1, 2).Usable())
	assert.False(t, domain.PoolSnapshot{Total: 100}.Usable())
	assert.False(t, domain.PoolSnapshot{Entries: []domain.PoolEntry{{Stake: 1}}}.Usable())
	assert.True(t, domain.PoolSnapshot{Total: 1, Entries: []domain.PoolEntry{{Stake: 1}}}.Usable())
}

func TestNoDataResult_Shape(t *testing.T) {
	b, err := json.Marshal(domain.NoDataResult())
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalEnjeu":0,"listeCombinaisons":[],"status":"no_data"}`, string(b))
}

func TestEntrantKey_String(t *testing.T) {
	k := domain.EntrantKey{Race: 1, Contest: 3, Combination: "7"}
	assert.Equal(t, "R1C3#7", k.String())
}

func TestIdentifier_MarshalKeepsNumbers(t *testing.T) {
	b, err := json.Marshal(domain.Combination{"7", "12", "A1"})
	require.NoError(t, err)
	assert.JSONEq(t, `[7, 12, "A1"]`, string(b))
}
