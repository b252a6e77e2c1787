package extension

import (
	"testing"

	"github.com/procdoc/procdoc/model"
	"github.com/stretchr/testify/assert"
)

func TestRegistry_Kind(t *testing.T) {
	registry := New()
	testCases := []struct {
		URL      string
		expected string
	}{
		{"mem://localhost/repo/order.bpmn", model.DocumentKindProcess},
		{"mem://localhost/repo/order.bpmn20.xml", model.DocumentKindProcess},
		{"mem://localhost/repo/.github/workflows/scan.yaml", model.DocumentKindPipeline},
		{"mem://localhost/repo/scan.yml", model.DocumentKindPipeline},
		{"mem://localhost/repo/.mergify.yml", model.DocumentKindAutomation},
		{"mem://localhost/repo/pr-rules.yaml", model.DocumentKindAutomation},
		{"mem://localhost/repo/README.md", ""},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, registry.Kind(testCase.URL), testCase.URL)
	}
}

func TestRegistry_CustomMatcher(t *testing.T) {
	registry := New(WithMatcher(func(URL string) string {
		if URL == "mem://localhost/repo/automation.conf" {
			return model.DocumentKindAutomation
		}
		return ""
	}), WithExtension(".xml", model.DocumentKindProcess))

	assert.Equal(t, model.DocumentKindAutomation, registry.Kind("mem://localhost/repo/automation.conf"))
	assert.Equal(t, model.DocumentKindProcess, registry.Kind("mem://localhost/repo/order.xml"))
}
