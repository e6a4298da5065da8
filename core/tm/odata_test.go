package tm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrap(t *testing.T) {
	assert.JSONEq(t, `{"a":1}`, string(unwrap([]byte(`{"d":{"a":1}}`))))
	assert.JSONEq(t, `{"a":1}`, string(unwrap([]byte(`{"a":1}`))))
	assert.Equal(t, "not json", string(unwrap([]byte("not json"))))
	assert.Nil(t, unwrap([]byte("  ")))
}

func TestJoinCookies(t *testing.T) {
	assert.Equal(t, "a=1; b=2", joinCookies([]string{"a=1; Path=/", " b=2"}))
	assert.Equal(t, "", joinCookies(nil))
}

func TestDecodeResults(t *testing.T) {
	rows, bad, err := decodeResults[ReportedEvent]([]byte(`{"d":{"results":[
		{"StopId":"S1","ETA":0,"Latitude":51.5},
		42,
		{"StopId":"S3","Description":true}
	]}}`))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "0", rows[0].ETA)
	assert.Equal(t, json.Number("51.5"), rows[0].Latitude)
	assert.Equal(t, "true", rows[1].Description)
	require.Len(t, bad, 1)
	assert.Equal(t, 1, bad[0].Index)

	_, _, err = decodeResults[ReportedEvent]([]byte(`{"d":`))
	assert.Error(t, err)
}
