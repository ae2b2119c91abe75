package router

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	routerAnnotation = regexp.MustCompile(`(?m)^// @Router\s+(\S+) \[(\w+)\]$`)
	swagPathParam    = regexp.MustCompile(`\{(\w+)\}`)
)

// TestPricingRoutes_AreAnnotated keeps the handler swag annotations in step
// with the routes the router actually registers
func TestPricingRoutes_AreAnnotated(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "handler", "*.go"))
	require.NoError(t, err)

	documented := make(map[string]bool)
	for _, file := range files {
		if strings.HasSuffix(file, "_test.go") {
			continue
		}
		src, err := os.ReadFile(file)
		require.NoError(t, err)
		for _, m := range routerAnnotation.FindAllStringSubmatch(string(src), -1) {
			path := swagPathParam.ReplaceAllString(m[1], ":$1")
			documented[strings.ToUpper(m[2])+" /api/v1"+path] = true
		}
	}
	require.NotEmpty(t, documented)

	api := newTestAPI(t)
	registered := 0
	for _, route := range api.engine.Routes() {
		if !strings.HasPrefix(route.Path, "/api/v1/") {
			continue
		}
		registered++
		key := route.Method + " " + route.Path
		assert.True(t, documented[key], "route %s has no @Router annotation", key)
	}
	assert.Equal(t, len(documented), registered, "annotations without a registered route")
}
