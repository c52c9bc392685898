package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamelToSnake(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "already snake", input: "created_time", expected: "created_time"},
		{name: "simple camel", input: "CreatedTime", expected: "created_time"},
		{name: "lower camel", input: "dashConfig", expected: "dash_config"},
		{name: "acronym run", input: "DashARN", expected: "dash_arn"},
		{name: "acronym mid word", input: "DashARNValue", expected: "dash_arn_value"},
		{name: "single word", input: "Status", expected: "status"},
		{name: "digits", input: "Ipv6CidrBlock", expected: "ipv6_cidr_block"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CamelToSnake(tc.input))
		})
	}
}

func TestSnakeCaseKeys(t *testing.T) {
	t.Run("nil map", func(t *testing.T) {
		assert.Nil(t, SnakeCaseKeys(nil))
	})

	t.Run("nested maps and slices", func(t *testing.T) {
		input := map[string]any{
			"DashName":    "rawks",
			"CreatedTime": "2017-11-03 23:46:44.841000",
			"DashConfig": map[string]any{
				"ReplicaCount": 3,
				"EdgeNodes":    []any{map[string]any{"NodeType": "edge.large"}},
			},
		}

		result := SnakeCaseKeys(input)

		require.Contains(t, result, "dash_config")
		assert.Equal(t, "rawks", result["dash_name"])
		assert.Equal(t, "2017-11-03 23:46:44.841000", result["created_time"])

		nested, ok := result["dash_config"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 3, nested["replica_count"])

		nodes, ok := nested["edge_nodes"].([]any)
		require.True(t, ok)
		require.Len(t, nodes, 1)
		assert.Equal(t, map[string]any{"node_type": "edge.large"}, nodes[0])
	})
}

func TestToStringMap(t *testing.T) {
	t.Run("nil input", func(t *testing.T) {
		m, err := ToStringMap(nil)
		assert.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("map of any with strings", func(t *testing.T) {
		m, err := ToStringMap(map[string]any{"Env": "prod", "Team": "core"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"Env": "prod", "Team": "core"}, m)
	})

	t.Run("non string value", func(t *testing.T) {
		_, err := ToStringMap(map[string]any{"Count": 3})
		assert.Error(t, err)
	})

	t.Run("not a map", func(t *testing.T) {
		_, err := ToStringMap([]string{"a"})
		assert.Error(t, err)
	})
}
