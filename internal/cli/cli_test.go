package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zenith-pos/internal/config"
	"zenith-pos/internal/domain"
	"zenith-pos/internal/server"
	"zenith-pos/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAPI(t *testing.T) string {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Env: "development"},
		Store:  config.StoreConfig{Driver: config.DriverMemory},
		JWT:    config.JWTConfig{Secret: "cli-test"},
		POS:    config.POSConfig{TaxRate: 0.08},
	}
	srv := server.NewServer(cfg, zap.NewNop(), server.NewBackend(store.NewMemory()), nil)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts.URL
}

func run(t *testing.T, url string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", url}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"products", "sell", "report", "export"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	sell, _, err := cmd.Find([]string{"sell"})
	require.NoError(t, err)
	assert.Equal(t, "0.08", sell.Flags().Lookup("tax-rate").DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, "http://127.0.0.1:0", "--format", "xml", "products")
	assert.ErrorContains(t, err, "invalid format")
}

func TestProducts(t *testing.T) {
	url := newAPI(t)

	out, err := run(t, url, "products")
	require.NoError(t, err)
	assert.Contains(t, out, "BARCODE")
	assert.Contains(t, out, "Espresso")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 11)

	out, err = run(t, url, "--format", "json", "products")
	require.NoError(t, err)
	var products []domain.Product
	require.NoError(t, json.Unmarshal([]byte(out), &products))
	assert.Len(t, products, 10)
}

func TestSellAndReport(t *testing.T) {
	url := newAPI(t)

	out, err := run(t, url, "sell",
		"--name", "Cashier", "--password", "password123",
		"--barcode", "111111", "--barcode", "111111", "--barcode", "222222")
	require.NoError(t, err)
	assert.Contains(t, out, "scanned Espresso 2.50")
	assert.Contains(t, out, "running total 2.70")
	assert.Contains(t, out, "Cashier Cashier")
	assert.Contains(t, out, "9.18")

	out, err = run(t, url, "--format", "json", "sell", "--barcode", "777777")
	require.NoError(t, err)
	var tx domain.Transaction
	require.NoError(t, json.Unmarshal([]byte(out), &tx))
	assert.NotEmpty(t, tx.ID)
	assert.Empty(t, tx.CashierID)
	assert.Equal(t, 2.97, tx.Total)

	out, err = run(t, url, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "Revenue      12.15")
	assert.Contains(t, out, "Sales        2")
	assert.Contains(t, out, "Items sold   4")

	path := filepath.Join(t.TempDir(), "sales.csv")
	_, err = run(t, url, "export", "-o", path)
	require.NoError(t, err)
	csv, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(csv)), "\n"), 3)
}

func TestSellFailures(t *testing.T) {
	url := newAPI(t)

	_, err := run(t, url, "sell", "--barcode", "000000")
	assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)

	_, err = run(t, url, "sell", "--name", "Cashier", "--password", "nope", "--barcode", "111111")
	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials), "got %v", err)

	_, err = run(t, url, "sell")
	assert.Error(t, err)

	out, err := run(t, url, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "Sales        0")
}
