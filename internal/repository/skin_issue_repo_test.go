package repository

import (
	"skincare_service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSkinIssueCatalog(t *testing.T) {
	repo, err := NewSkinIssueRepository(quietLogger())
	require.NoError(t, err)

	infos := repo.ListInfos()
	require.Len(t, infos, 5)
	assert.Equal(t, domain.SkinIssueAcne, infos[0].Issue)
	assert.Equal(t, domain.SkinIssueBlackCircle, infos[4].Issue)

	info, err := repo.GetInfo(domain.SkinIssueWrinkle)
	require.NoError(t, err)
	assert.Equal(t, "Kırışıklık", info.Title)
	assert.Len(t, info.Causes, 6)
	assert.Len(t, info.DailyCare, 4)
	assert.Len(t, info.Tips, 4)

	_, err = repo.GetInfo(domain.SkinIssueHealthy)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, "Akne Serumu", repo.ProductTypes(domain.SkinIssueAcne)[0])
	assert.Contains(t, repo.Keywords(domain.SkinIssueHealthy), "moisturizer")
	assert.Len(t, repo.RetryQueries(domain.SkinIssueBlackCircle), 4)
	assert.Empty(t, repo.RetryQueries(domain.SkinIssueAcne))
	assert.Len(t, repo.AlternativeQueries(domain.SkinIssueStain), 3)
}

func TestSkinIssueTitlesMatchSkinTypes(t *testing.T) {
	repo, err := NewSkinIssueRepository(quietLogger())
	require.NoError(t, err)

	for _, st := range domain.SkinTypes {
		info, err := repo.GetInfo(st.Issue())
		require.NoError(t, err)
		assert.Equal(t, string(st), info.Title)
	}
}

func TestSkinIssueCatalogReturnsCopies(t *testing.T) {
	repo, err := NewSkinIssueRepository(quietLogger())
	require.NoError(t, err)

	types := repo.ProductTypes(domain.SkinIssueAcne)
	types[0] = "changed"
	assert.Equal(t, "Akne Serumu", repo.ProductTypes(domain.SkinIssueAcne)[0])
}

func TestSkinIssueCatalogValidation(t *testing.T) {
	_, err := NewSkinIssueRepositoryFromYAML([]byte("acne: ["), quietLogger())
	assert.Error(t, err)

	_, err = NewSkinIssueRepositoryFromYAML([]byte("freckles:\n  title: x\n"), quietLogger())
	assert.ErrorIs(t, err, domain.ErrInvalidSkinIssue)

	_, err = NewSkinIssueRepositoryFromYAML([]byte("acne:\n  title: Akne\n  description: d\n  product_types: [a]\n"), quietLogger())
	assert.ErrorContains(t, err, "missing pockmark")
}
