package formatting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrettyJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{
			name:     "object",
			input:    map[string]interface{}{"spec": "auth", "tests": 2},
			expected: "{\n  \"spec\": \"auth\",\n  \"tests\": 2\n}",
		},
		{
			name:     "list",
			input:    []string{"visit /", "click"},
			expected: "[\n  \"visit /\",\n  \"click\"\n]",
		},
		{name: "string", input: "hello", expected: `"hello"`},
		{name: "nil", input: nil, expected: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PrettyJSON(tt.input))
		})
	}
}

func TestPrettyJSON_Unmarshalable(t *testing.T) {
	ch := make(chan int)
	assert.Contains(t, PrettyJSON(ch), "0x")
	assert.Contains(t, Compact(ch), "0x")
}

func TestCompact(t *testing.T) {
	assert.Equal(t, `{"a":[1,2]}`, Compact(map[string]interface{}{"a": []int{1, 2}}))
}
