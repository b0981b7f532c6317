package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateTodoRequest_CompletedValue(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{`{}`, false},
		{`{"completed":null}`, false},
		{`{"completed":false}`, false},
		{`{"completed":true}`, true},
		{`{"completed":0}`, false},
		{`{"completed":-0}`, false},
		{`{"completed":0.5}`, true},
		{`{"completed":-1}`, true},
		{`{"completed":""}`, false},
		{`{"completed":"0"}`, true},
		{`{"completed":"false"}`, true},
		{`{"completed":[]}`, true},
		{`{"completed":{}}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var req UpdateTodoRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.CompletedValue())
		})
	}

	t.Run("NaN and json.Number", func(t *testing.T) {
		assert.False(t, UpdateTodoRequest{Completed: math.NaN()}.CompletedValue())
		assert.False(t, UpdateTodoRequest{Completed: json.Number("0")}.CompletedValue())
		assert.True(t, UpdateTodoRequest{Completed: json.Number("2")}.CompletedValue())
	})
}
