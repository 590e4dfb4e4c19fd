package dto

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTweakRequestAcceptsBoolsAndDigits(t *testing.T) {
	var req TweakRequest
	raw := `{"settings":{"12":{"seo":1,"published":0,"front":"1"},"13":{"front":false}}}`
	require.NoError(t, sonic.UnmarshalString(raw, &req))

	assert.Equal(t, map[string]bool{"seo": true, "published": false, "front": true}, Columns(req.Settings["12"]))
	assert.Equal(t, map[string]bool{"front": false}, Columns(req.Settings["13"]))
}

func TestTweakRequestRejectsOtherValues(t *testing.T) {
	var req TweakRequest
	assert.Error(t, sonic.UnmarshalString(`{"settings":{"12":{"seo":2}}}`, &req))
	assert.Error(t, sonic.UnmarshalString(`{"settings":{"12":{"seo":"yes"}}}`, &req))
}

func TestSavePostRequestTimestamp(t *testing.T) {
	req := SavePostRequest{Date: "03/02/2024"}
	ts := req.Timestamp(time.Unix(0, 0))
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC).Unix(), ts)

	req.Date = ""
	now := time.Unix(1700000000, 0)
	assert.Equal(t, now.Unix(), req.Timestamp(now))
}
