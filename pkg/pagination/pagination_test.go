package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Page: 1, Limit: 20, Offset: 0}},
		{"explicit", "page=3&limit=10", Params{Page: 3, Limit: 10, Offset: 20}},
		{"limit clamped", "limit=500", Params{Page: 1, Limit: 100, Offset: 0}},
		{"non-positive", "page=0&limit=-5", Params{Page: 1, Limit: 20, Offset: 0}},
		{"garbage", "page=abc&limit=x", Params{Page: 1, Limit: 20, Offset: 0}},
		{"page clamped", "page=9223372036854775807&limit=100", Params{Page: MaxPage, Limit: 100, Offset: (MaxPage - 1) * 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, FromQuery(q))
		})
	}
}
