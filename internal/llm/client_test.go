package llm

import (
	"errors"
	"testing"
)

func TestIsRateLimitError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("429 Too Many Requests"), true},
		{errors.New("provider rate limit exceeded"), true},
		{errors.New("500 internal server error"), false},
		{errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		if got := isRateLimitError(tc.err); got != tc.want {
			t.Errorf("isRateLimitError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestIsServerError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("500 Internal Server Error"), true},
		{errors.New("upstream returned server_error"), true},
		{errors.New("429 too many requests"), false},
		{errors.New("bad request"), false},
	}
	for _, tc := range cases {
		if got := isServerError(tc.err); got != tc.want {
			t.Errorf("isServerError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

type nestedSchema struct {
	Label string `json:"label"`
	Items []struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	} `json:"items"`
}

func TestGenerateSchema_Strictness(t *testing.T) {
	schema := GenerateSchema[nestedSchema]()

	assertStrict(t, schema, "root")
}

func assertStrict(t *testing.T, node map[string]any, path string) {
	t.Helper()

	if node["type"] == "object" {
		if ap, ok := node["additionalProperties"].(bool); !ok || ap {
			t.Errorf("%s: expected additionalProperties=false", path)
		}
		props, _ := node["properties"].(map[string]any)
		required, _ := node["required"].([]string)
		requiredSet := map[string]bool{}
		for _, r := range required {
			requiredSet[r] = true
		}
		for name, sub := range props {
			if !requiredSet[name] {
				t.Errorf("%s: expected property %q to be required", path, name)
			}
			if m, ok := sub.(map[string]any); ok {
				assertStrict(t, m, path+"."+name)
			}
		}
	}
	if items, ok := node["items"].(map[string]any); ok {
		assertStrict(t, items, path+"[]")
	}
}
