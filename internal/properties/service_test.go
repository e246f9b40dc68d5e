package properties_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxprotest/internal/properties"
	"taxprotest/internal/properties/store"
	dErrors "taxprotest/pkg/domain-errors"
)

func seeded(n int) *store.MemoryStore {
	mem := store.NewMemory()
	for i := 0; i < n; i++ {
		mem.Add(properties.Summary{
			Account:    strconv.Itoa(1000 + i),
			Address:    "101 MAIN ST",
			PostalCode: "77002",
			OwnerName:  "SMITH JOHN",
		})
	}
	return mem
}

func TestSearchRequiresCriteria(t *testing.T) {
	svc := properties.NewService(seeded(1), nil)
	_, err := svc.Search(context.Background(), properties.Query{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

	// whitespace-only criteria count as blank
	_, err = svc.Search(context.Background(), properties.Query{Owner: "   "})
	assert.Error(t, err)
}

func TestSearchPaginates(t *testing.T) {
	svc := properties.NewService(seeded(60), nil)

	result, err := svc.Search(context.Background(), properties.Query{Street: "MAIN", Page: 1, PageSize: 25})
	require.NoError(t, err)
	assert.Equal(t, 60, result.Total)
	assert.Equal(t, 3, result.TotalPages)
	assert.Len(t, result.Properties, 25)
	assert.Equal(t, "1000", result.Properties[0].Account)

	last, err := svc.Search(context.Background(), properties.Query{Street: "MAIN", Page: 3, PageSize: 25})
	require.NoError(t, err)
	assert.Len(t, last.Properties, 10)

	// page beyond the end clamps to the last page
	over, err := svc.Search(context.Background(), properties.Query{Street: "MAIN", Page: 9, PageSize: 25})
	require.NoError(t, err)
	assert.Equal(t, 3, over.Page)
	assert.Len(t, over.Properties, 10)
}

func TestSearchDefaultsInvalidPageSize(t *testing.T) {
	svc := properties.NewService(seeded(60), nil)
	result, err := svc.Search(context.Background(), properties.Query{Street: "MAIN", PageSize: 37})
	require.NoError(t, err)
	assert.Equal(t, 50, result.PageSize)
	assert.Len(t, result.Properties, 50)
}

func TestSearchExactMatch(t *testing.T) {
	mem := store.NewMemory()
	mem.Add(properties.Summary{Account: "1001", Address: "101 MAIN ST", PostalCode: "77002"})
	mem.Add(properties.Summary{Account: "10011", Address: "11 MAINLAND AVE", PostalCode: "77002"})
	svc := properties.NewService(mem, nil)

	loose, err := svc.Search(context.Background(), properties.Query{Account: "1001"})
	require.NoError(t, err)
	assert.Equal(t, 2, loose.Total)

	exact, err := svc.Search(context.Background(), properties.Query{Account: "1001", ExactMatch: true})
	require.NoError(t, err)
	require.Equal(t, 1, exact.Total)
	assert.Equal(t, "1001", exact.Properties[0].Account)
}

func TestSearchNoHits(t *testing.T) {
	svc := properties.NewService(seeded(3), nil)
	result, err := svc.Search(context.Background(), properties.Query{Street: "NOWHERE"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.NotNil(t, result.Properties)
	assert.Empty(t, result.Properties)
	assert.Equal(t, 1, result.TotalPages)
}
