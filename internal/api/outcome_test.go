package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome_ExactlyOnePayload(t *testing.T) {
	ok := Succeeded("photo.png", 2048, "image/png", "uploads/1-ab-photo.png", "https://s3/x")
	stored, isStored := ok.Stored()
	_, isFailed := ok.Failure()
	assert.True(t, isStored)
	assert.False(t, isFailed)
	assert.True(t, ok.OK())
	assert.Equal(t, "uploads/1-ab-photo.png", stored.StorageKey)

	bad := Failed("doc.pdf", 10, "application/pdf", "boom")
	_, isStored = bad.Stored()
	msg, isFailed := bad.Failure()
	assert.False(t, isStored)
	assert.True(t, isFailed)
	assert.False(t, bad.OK())
	assert.Equal(t, "boom", msg)
}

func TestFailed_EmptyMessageGetsDefault(t *testing.T) {
	msg, _ := Failed("a", 0, "", "").Failure()
	assert.Equal(t, "Failed to upload file", msg)
}

func TestOutcome_MarshalJSON_Shapes(t *testing.T) {
	b, err := json.Marshal(Succeeded("photo.png", 2048, "image/png", "uploads/k", "https://u"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"originalName":"photo.png","size":2048,"type":"image/png","s3Key":"uploads/k","url":"https://u"}`, string(b))

	b, err = json.Marshal(Failed("photo.png", 2048, "image/png", "backend unreachable"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"originalName":"photo.png","error":"backend unreachable"}`, string(b))

	// empty declared type is still present on success, as the browser sends it
	b, err = json.Marshal(Succeeded("blob", 0, "", "uploads/k", "https://u"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"originalName":"blob","size":0,"type":"","s3Key":"uploads/k","url":"https://u"}`, string(b))
}

func TestOutcome_ZeroValueIsRejected(t *testing.T) {
	_, err := json.Marshal(FileUploadOutcome{OriginalName: "x"})
	require.ErrorIs(t, err, ErrMalformedOutcome)
}

func TestOutcome_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantOK  bool
		wantErr bool
	}{
		{name: "success", input: `{"originalName":"a","size":3,"type":"text/plain","s3Key":"k","url":"u"}`, wantOK: true},
		{name: "failure", input: `{"originalName":"a","error":"nope"}`},
		{name: "neither", input: `{"originalName":"a"}`, wantErr: true},
		{name: "both", input: `{"originalName":"a","url":"u","error":"nope"}`, wantErr: true},
		{name: "not json", input: `<html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o FileUploadOutcome
			err := json.Unmarshal([]byte(tt.input), &o)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, o.OK())
			assert.Equal(t, "a", o.OriginalName)
		})
	}
}

func TestUploadResponse_EmptyResultsIsArray(t *testing.T) {
	b, err := json.Marshal(UploadResponse{Message: "Files processed", Results: BatchResult{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Files processed","results":[]}`, string(b))
}

func TestBatchResult_Counts(t *testing.T) {
	b := BatchResult{
		Succeeded("a", 1, "", "k1", "u1"),
		Failed("b", 1, "", "x"),
		Succeeded("c", 1, "", "k2", "u2"),
	}
	s, f := b.Counts()
	assert.Equal(t, 2, s)
	assert.Equal(t, 1, f)
}
