package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"storefront/cmd/storefront/ui"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const productsJSON = `[
  {"id":1,"title":"Backpack","price":9.99,"category":"bags","image":"https://img/1.jpg","rating":{"rate":3.9,"count":120}},
  {"id":2,"title":"Slim Tee","price":22.3,"category":"clothing","image":"https://img/2.jpg","rating":{"rate":4.1,"count":259}}
]`

// setup points the globals at a fake catalog and a temp sqlite cart.
func setup(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := config.DefaultConfig()
	c.Catalog.URL = server.URL
	c.Catalog.Timeout = "2s"
	c.Storage.Path = filepath.Join(t.TempDir(), "cart.db")
	c.UI.Theme = config.ThemeLight
	require.NoError(t, c.Validate())

	cfg = c
	logger = zap.NewNop()
}

func serveProducts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(productsJSON))
}

func failCatalog(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "down", http.StatusServiceUnavailable)
}

// run invokes fn as the named subcommand and returns its output.
func run(t *testing.T, name string, fn func(*cobra.Command, []string) error, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{Use: name}
	cmd.Flags().String("category", "", "")
	cmd.SetOut(&buf)
	require.NoError(t, fn(cmd, args))
	return buf.String()
}

func TestProducts(t *testing.T) {
	setup(t, serveProducts)

	out := run(t, "products", runProducts)
	assert.Contains(t, out, "Backpack")
	assert.Contains(t, out, "$22.30")
}

func TestProducts_FetchFailure(t *testing.T) {
	setup(t, failCatalog)

	out := run(t, "products", runProducts)
	assert.Contains(t, out, ui.FetchFailedText)
}

func TestCart_EmptyOnFirstRun(t *testing.T) {
	setup(t, serveProducts)

	out := run(t, "cart", runCart)
	assert.Contains(t, out, ui.EmptyCartText)
	assert.Contains(t, out, "Total: $0.00")
}

func TestIntentLifecycle(t *testing.T) {
	setup(t, serveProducts)

	run(t, "add", runIntent, "1")
	out := run(t, "add", runIntent, "1")
	assert.Contains(t, out, "Total: $19.98")

	assert.Equal(t, "Total: $19.98\n", run(t, "total", runTotal))

	out = run(t, "dec", runIntent, "1")
	assert.Contains(t, out, "Total: $9.99")

	out = run(t, "inc", runIntent, "1")
	assert.Contains(t, out, "Total: $19.98")

	out = run(t, "remove", runIntent, "1")
	assert.Contains(t, out, ui.EmptyCartText)
	assert.Equal(t, "Total: $0.00\n", run(t, "total", runTotal))
}

func TestAdd_UnknownProductIsNoop(t *testing.T) {
	setup(t, serveProducts)

	out := run(t, "add", runIntent, "99")
	assert.Contains(t, out, "No change")
	assert.Contains(t, out, "Total: $0.00")
}

func TestAdd_FetchFailureLeavesCart(t *testing.T) {
	setup(t, serveProducts)
	run(t, "add", runIntent, "2")

	// same cart, catalog now down
	path := cfg.Storage.Path
	setup(t, failCatalog)
	cfg.Storage.Path = path

	out := run(t, "add", runIntent, "2")
	assert.Contains(t, out, ui.FetchFailedText)
	assert.True(t, strings.Contains(out, "Total: $22.30"), "cart untouched, got:\n%s", out)

	// inc does not need the catalog
	out = run(t, "inc", runIntent, "2")
	assert.Contains(t, out, "Total: $44.60")
}

func TestIntentFor(t *testing.T) {
	tests := []struct {
		name string
		want cart.Action
	}{
		{"add", cart.ActionAdd},
		{"inc", cart.ActionIncrement},
		{"dec", cart.ActionDecrement},
		{"remove", cart.ActionRemove},
		{"rm", cart.ActionRemove},
	}
	for _, tt := range tests {
		in, err := intentFor(tt.name, "7")
		require.NoError(t, err)
		assert.Equal(t, tt.want, in.Action)
		assert.Equal(t, catalog.ID("7"), in.ProductID)
	}

	_, err := intentFor("checkout", "7")
	assert.Error(t, err)
}

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"products", "cart", "total", "add", "inc", "dec", "remove"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
	for _, flag := range []string{"config", "verbose", "store", "timeout"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), "missing flag --%s", flag)
	}
}
