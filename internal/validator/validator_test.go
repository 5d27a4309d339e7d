package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Query  string `query:"q" validate:"required,notblank,max=10"`
	Domain string `params:"domain" validate:"required,oneof=news events"`
	Count  int    `json:"count" validate:"min=1"`
	Plain  string `validate:"max=3"`
}

func TestValidate_FieldNamesFromTags(t *testing.T) {
	v := New()

	err := v.Validate(&sample{Query: "   ", Domain: "sports", Count: 0, Plain: "long"})
	require.Error(t, err)

	errs, ok := err.(ValidationErrors)
	require.True(t, ok)

	byField := make(map[string]ValidationError)
	for _, e := range errs {
		byField[e.Field] = e
	}

	require.Contains(t, byField, "q")
	assert.Equal(t, "notblank", byField["q"].Tag)
	assert.Equal(t, "q is required", byField["q"].Message)

	require.Contains(t, byField, "domain")
	assert.Equal(t, "domain must be one of: news events", byField["domain"].Message)

	require.Contains(t, byField, "count")
	assert.Equal(t, "count must be at least 1", byField["count"].Message)

	require.Contains(t, byField, "Plain", "untagged fields keep their Go name")
	assert.Equal(t, "Plain must be at most 3", byField["Plain"].Message)
}

func TestValidate_Valid(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&sample{Query: "fbla", Domain: "news", Count: 1}))
}
