package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation_String(t *testing.T) {
	testCases := []struct {
		name     string
		loc      Location
		expected string
	}{
		{name: "empty", loc: Location{}, expected: "unknown location"},
		{name: "api only", loc: Location{API: "article"}, expected: "article"},
		{name: "content type", loc: Location{API: "article", ContentType: "comment"}, expected: "article.comment"},
		{name: "route", loc: Location{API: "article", Route: "GET /articles"}, expected: "article GET /articles"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.loc.String())
		})
	}
}

func TestNewInvalidRouteDescriptor(t *testing.T) {
	err := NewInvalidRouteDescriptor("handler", Location{API: "article", Route: "GET /articles"})

	assert.Equal(t, InvalidRouteDescriptorCode, err.ErrorCode())
	assert.Equal(t, "article GET /articles: invalid route descriptor: missing handler", err.Error())
	assert.Equal(t, "handler", err.Context()["field"])
	assert.NotEmpty(t, err.Suggestions())
}

func TestWrapPathTemplateError_Unwraps(t *testing.T) {
	cause := stderrors.New("unexpected token")
	err := WrapPathTemplateError("/a/:(", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to parse path template '/a/:('")
	assert.Contains(t, err.Error(), "unexpected token")
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("building: %w", NewUnresolvedSchemaReference("component", "shared.seo", "seo"))

	assert.Equal(t, UnresolvedSchemaReferenceCode, CodeOf(wrapped))
	assert.Equal(t, UnknownErrorCode, CodeOf(stderrors.New("plain")))
	assert.True(t, Is(wrapped, UnresolvedSchemaReferenceCode))
	assert.False(t, Is(wrapped, InvalidAttributeCode))
}

func TestMultipleErrors(t *testing.T) {
	multi := NewMultipleErrors()
	assert.Nil(t, multi.ErrorOrNil())
	assert.Equal(t, "no errors", multi.Error())

	multi.Add(NewInvalidAttribute("title", "unknown"))
	assert.Equal(t, "invalid type 'unknown' on attribute 'title' while generating open api schema", multi.Error())

	multi.Add(NewInvalidRouteDescriptor("method", Location{}))
	require.Error(t, multi.ErrorOrNil())
	assert.Contains(t, multi.Error(), "multiple errors (2 total)")
	assert.True(t, multi.HasCode(InvalidRouteDescriptorCode))
	assert.True(t, Is(multi, InvalidAttributeCode))

	var docErr DocError
	assert.True(t, stderrors.As(multi, &docErr))
}
