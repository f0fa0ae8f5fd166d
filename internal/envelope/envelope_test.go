package envelope

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRecognizedShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"bare array", `[{"id":1},{"id":2}]`, 2},
		{"data wrapper", `{"data":[{"id":1}]}`, 1},
		{"rows wrapper", `{"rows":[{"id":1},{"id":2},{"id":3}]}`, 3},
		{"nested data.data", `{"data":{"data":[{"id":1},{"id":2}]}}`, 2},
		{"nested data.rows", `{"data":{"rows":[{"id":9}]}}`, 1},
		{"empty array", `[]`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Len(t, List([]byte(tc.raw)), tc.want)
		})
	}
}

func TestListTotality(t *testing.T) {
	// Anything unrecognized must come back as an empty slice, never a panic.
	inputs := []string{
		`null`, `{}`, `42`, `"text"`, `true`,
		`{"data":null}`, `{"data":{"nope":1}}`, `{"data":"str"}`,
		`{"something":[1,2]}`, ``, `{invalid`,
	}
	for _, raw := range inputs {
		got := List([]byte(raw))
		require.NotNil(t, got, "input %q", raw)
		assert.Empty(t, got, "input %q", raw)
	}
}

func TestListPreservesOrder(t *testing.T) {
	items := List([]byte(`{"data":[{"id":3},{"id":1},{"id":2}]}`))
	require.Len(t, items, 3)
	var first struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(items[0], &first))
	assert.Equal(t, 3, first.ID)
}

func TestObject(t *testing.T) {
	assert.NotNil(t, Object([]byte(`{"data":{"id":1}}`)))
	assert.NotNil(t, Object([]byte(`{"bundle":{"id":1}}`)))
	assert.NotNil(t, Object([]byte(`{"id":1}`)))
	assert.Nil(t, Object([]byte(`[1,2,3]`)))
	assert.Nil(t, Object([]byte(`null`)))
	assert.Nil(t, Object([]byte(`"str"`)))
	assert.Nil(t, Object([]byte(`{bad`)))
}

func TestObjectPrefersDataOverBundle(t *testing.T) {
	raw := []byte(`{"data":{"id":1},"bundle":{"id":2}}`)
	var got struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(Object(raw), &got))
	assert.Equal(t, 1, got.ID)
}

func TestDecodeListSkipsBadElements(t *testing.T) {
	type row struct {
		ID int `json:"id"`
	}
	rows := DecodeList[row]([]byte(`{"rows":[{"id":1},"garbage",{"id":2}]}`))
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].ID)
	assert.Equal(t, 2, rows[1].ID)
}

func TestDecodeObject(t *testing.T) {
	type bundle struct {
		ID int `json:"id"`
	}
	b, ok := DecodeObject[bundle]([]byte(`{"bundle":{"id":7}}`))
	require.True(t, ok)
	assert.Equal(t, 7, b.ID)

	_, ok = DecodeObject[bundle]([]byte(`[]`))
	assert.False(t, ok)
}
