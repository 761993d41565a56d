package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag/v2"
)

func TestReadDoc(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Swagger  string                    `json:"swagger"`
		BasePath string                    `json:"basePath"`
		Info     map[string]string         `json:"info"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "/api", doc.BasePath)
	assert.Equal(t, "Community Support API", doc.Info["title"])

	assert.Contains(t, doc.Paths, "/CategoryData/ListCategorys")
	assert.Contains(t, doc.Paths, "/DonationData/ListDonationsForDonor/{id}")
	assert.Contains(t, doc.Paths["/ArticleData/UpdateArticle/{id}"], "put")
	assert.Contains(t, doc.Paths["/ArticleData/DeleteArticle/{id}"], "delete")
	assert.Contains(t, doc.Paths, "/Account/Login")
}

func TestDocument_EveryResourceHasFivePaths(t *testing.T) {
	paths := document()["paths"].(object)
	for _, r := range resources {
		base := "/" + r.Entity + "Data/"
		for _, p := range []string{
			base + "List" + r.Entity + "s",
			base + "Find" + r.Entity + "/{id}",
			base + "Add" + r.Entity,
			base + "Update" + r.Entity + "/{id}",
			base + "Delete" + r.Entity + "/{id}",
		} {
			assert.Contains(t, paths, p)
		}
	}
}
