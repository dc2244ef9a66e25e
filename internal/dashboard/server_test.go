package dashboard_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/contract-data-extractor/internal/dashboard"
	"github.com/a3tai/contract-data-extractor/internal/output"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func get(t *testing.T, s *dashboard.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Index(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, output.FormatCSV, "Award 12345-67-X-8901 Order 1", []string{"0001", "$10.00"})
	writeTable(t, dir, output.FormatCSV, "Mod-12345-67-X-8901", []string{"0001AA", "$5.00"})

	s, err := dashboard.NewServer(dir, nil)
	require.NoError(t, err)

	rec := get(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Award: Award 12345-67-X-8901 Order 1 (1 modification)")
	assert.Contains(t, body, "<h3>Mod-12345-67-X-8901</h3>")
	assert.Contains(t, body, "<td>$5.00</td>")
	assert.NotContains(t, body, "Unmatched modifications")
}

func TestServer_IndexMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "absent")
	s, err := dashboard.NewServer(dir, nil)
	require.NoError(t, err)

	rec := get(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No output folder found")
}

func TestServer_APITables(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, output.FormatCSV, "Award N0024418D0003 Order N6339418F0035", []string{"0001", "$1.00"})

	s, err := dashboard.NewServer(dir, nil)
	require.NoError(t, err)

	rec := get(t, s, "/api/tables")
	require.Equal(t, http.StatusOK, rec.Code)

	var c dashboard.Catalog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.True(t, c.Exists)
	require.Len(t, c.Groups, 1)
	assert.Equal(t, "N0024418D0003", c.Groups[0].Award.Contract)
	assert.Equal(t, [][]string{{"0001", "$1.00"}}, c.Groups[0].Award.Table.Records)
}

func TestServer_Health(t *testing.T) {
	s, err := dashboard.NewServer(t.TempDir(), nil)
	require.NoError(t, err)

	rec := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_RunShutsDownOnCancel(t *testing.T) {
	s, err := dashboard.NewServer(t.TempDir(), nil)
	require.NoError(t, err)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
