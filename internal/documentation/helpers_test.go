package docgen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toyz/apidoc/internal/registry"
)

const testManifest = `
apis:
  - name: article
    contentTypes: [article]
    routes:
      article:
        routes:
          - {method: GET, path: /articles, handler: api::article.article.find}
          - {method: GET, path: "/articles/:id", handler: api::article.article.findOne}
          - {method: POST, path: /articles, handler: api::article.article.create}
          - {method: PUT, path: "/articles/:id", handler: api::article.article.update}
          - {method: DELETE, path: "/articles/:id", handler: api::article.article.delete}
  - name: restaurant
    contentTypes: [category]
    routes:
      category:
        prefix: /restaurant-categories
        routes:
          - {method: GET, path: /, handler: api::restaurant.category.find}
          - {method: GET, path: "/:id", handler: api::restaurant.category.findOne}
  - name: email
    kind: plugin
    routes:
      admin:
        prefix: /email
        routes:
          - {method: POST, path: /, handler: email.send}
contentTypes:
  api::article.article:
    attributes:
      title: {type: string, required: true}
      body: {type: richtext}
      publishedAt: {type: datetime}
      views: {type: biginteger}
      cover: {type: media}
      seo: {type: component, component: shared.seo}
      category: {type: relation, relation: manyToOne, target: api::restaurant.category}
  api::restaurant.category:
    attributes:
      name: {type: string}
      status: {type: enumeration, enum: [open, closed]}
components:
  shared.seo:
    attributes:
      metaTitle: {type: string, required: true}
`

func loadTestRegistry(t *testing.T, manifest string) registry.Registry {
	t.Helper()
	parsed, err := registry.ParseManifest([]byte(manifest))
	require.NoError(t, err)
	reg, err := parsed.Registry()
	require.NoError(t, err)
	return reg
}

func generateTestReport(t *testing.T) *Report {
	t.Helper()
	gen, err := NewGenerator(loadTestRegistry(t, testManifest), DefaultConfig())
	require.NoError(t, err)
	report, err := gen.Generate(context.Background())
	require.NoError(t, err)
	return report
}
