package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
currency: USD
products:
  - id: 6f1c1f0e-6a51-4d59-a0b5-5a2b1e0e7c01
    name: Rosemary Extract
    price: "10.00"
  - id: 6f1c1f0e-6a51-4d59-a0b5-5a2b1e0e7c02
    name: Sea Buckthorn Oil
    price: "5.50"
`

const (
	rosemaryID    = "6f1c1f0e-6a51-4d59-a0b5-5a2b1e0e7c01"
	seaBuckthorID = "6f1c1f0e-6a51-4d59-a0b5-5a2b1e0e7c02"
)

func setupEnv(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalog), 0o600))

	t.Setenv("CART_CATALOG", "file")
	t.Setenv("CART_CATALOG_PATH", catalogPath)
	t.Setenv("CART_STORAGE", "file")
	t.Setenv("CART_SESSION_DIR", filepath.Join(dir, "sessions"))
	t.Setenv("CART_SESSION", "test")
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.ExecuteContext(t.Context()))
	return out.String()
}

func TestCartctl_SessionSurvivesInvocations(t *testing.T) {
	setupEnv(t)

	run(t, "add", rosemaryID)
	run(t, "add", rosemaryID)
	out := run(t, "add", seaBuckthorID)

	assert.Contains(t, out, "Rosemary Extract")
	assert.Contains(t, out, "TOTAL 25.50 USD")

	out = run(t, "qty", seaBuckthorID, "0")
	assert.NotContains(t, out, "Sea Buckthorn Oil")
	assert.Contains(t, out, "TOTAL 20.00 USD")

	out = run(t, "clear")
	assert.Contains(t, out, "cart is empty")
}

func TestCartctl_SessionsAreSeparate(t *testing.T) {
	setupEnv(t)

	run(t, "add", rosemaryID)

	out := run(t, "show", "--session", "other")
	assert.Contains(t, out, "cart is empty")
}

func TestCartctl_Metrics(t *testing.T) {
	setupEnv(t)

	out := run(t, "add", rosemaryID, "--metrics")
	assert.Contains(t, out, "cart_items 1")
	assert.Contains(t, out, "cart_value 10")
}

func TestCartctl_Products(t *testing.T) {
	setupEnv(t)

	out := run(t, "products")
	assert.Contains(t, out, rosemaryID)
	assert.Contains(t, out, "5.50 USD")
}

func TestCartctl_Errors(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		name      string
		args      []string
		wantError string
	}{
		{
			name:      "unknown product",
			args:      []string{"add", "missing"},
			wantError: "catalog.GetProduct: product[missing]: product not found",
		},
		{
			name:      "non-integer quantity",
			args:      []string{"qty", rosemaryID, "many"},
			wantError: "quantity[many] is not an integer",
		},
		{
			name:      "unknown storage",
			args:      []string{"show", "--storage", "redis"},
			wantError: "session.storage[redis] is not one of memory, file, postgres",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := rootCmd()
			cmd.SetArgs(tt.args)
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})

			err := cmd.ExecuteContext(t.Context())
			require.ErrorContains(t, err, tt.wantError)
		})
	}
}
