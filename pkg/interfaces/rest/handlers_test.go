package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/mrpsim/pkg/datastore"
	"github.com/plantops/mrpsim/pkg/domain/entities"
	"github.com/plantops/mrpsim/pkg/infrastructure/repositories/csv"
	"github.com/plantops/mrpsim/pkg/planning"
)

var testToday = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testSnapshot() *datastore.Snapshot {
	return datastore.NewSnapshot(
		[]entities.Order{
			{OrderRef: "P-1", Article: "ART-A", Quantity: dec("100"), DueDate: testToday.Add(5 * 24 * time.Hour)},
		},
		[]entities.RoutingStep{
			{Article: "ART-A", Sequence: 10, Center: "910", SetupHours: dec("0.0833"), HourlyRate: dec("60")},
		},
		[]entities.StockLevel{{Article: "ART-A", Quantity: dec("20")}},
		[]entities.WipRecord{{Article: "ART-A", Quantity: dec("10")}},
		[]entities.LotRule{{Article: "ART-A", LotSize: dec("50"), RawMaterial: "MP-STEEL"}},
		[]entities.CenterCapacity{{Center: "910", AvailableHours: dec("160")}},
	)
}

func testServer(t *testing.T, snap *datastore.Snapshot) *Server {
	t.Helper()
	store := datastore.NewStore(logr.Discard())
	if snap != nil {
		store.Replace(snap)
	}
	engine := planning.NewEngine(store, logr.Discard(),
		planning.WithClock(func() time.Time { return testToday }))
	loader := csv.NewLoader(logr.Discard())
	return New(store, engine, loader, nil, nil, logr.Discard(), 8000)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := testServer(t, nil)
	rec := doRequest(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 8000, resp.Port)
	assert.False(t, resp.Loaded)
}

func TestHandleSimulate(t *testing.T) {
	s := testServer(t, testSnapshot())
	rec := doRequest(t, s, http.MethodPost, "/simulate",
		`{"factor_saturacion": 1.0, "turno_extra": false, "horizonte": 30}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Sequence []struct {
			Order   int    `json:"orden"`
			OrderID string `json:"numero_of"`
			Article string `json:"articulo"`
			Center  string `json:"centro"`
			Status  string `json:"estado"`
		} `json:"secuencia"`
		Saturation []struct {
			Center     string `json:"centro"`
			Bottleneck bool   `json:"es_cuello_botella"`
		} `json:"saturacion"`
		KPIs struct {
			TotalOrders int `json:"total_articulos"`
		} `json:"kpis"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Sequence, 1)
	assert.Equal(t, 1, resp.Sequence[0].Order)
	assert.Equal(t, "OF-SIM-ART-A-10", resp.Sequence[0].OrderID)
	assert.Equal(t, "910", resp.Sequence[0].Center)
	assert.Equal(t, "URGENTE", resp.Sequence[0].Status)
	require.Len(t, resp.Saturation, 1)
	assert.Equal(t, 1, resp.KPIs.TotalOrders)
}

func TestHandleSimulate_ValidationError(t *testing.T) {
	s := testServer(t, testSnapshot())
	rec := doRequest(t, s, http.MethodPost, "/simulate", `{"factor_saturacion": -1, "horizonte": 30}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Detail, "saturation_factor")
}

func TestHandleSimulate_NotLoaded(t *testing.T) {
	s := testServer(t, nil)
	rec := doRequest(t, s, http.MethodPost, "/simulate", `{"factor_saturacion": 1, "horizonte": 30}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "init-load")
}

func TestHandleInitLoad_MissingDirIs404(t *testing.T) {
	s := testServer(t, nil)
	rec := doRequest(t, s, http.MethodPost, "/init-load",
		`{"path": "/definitely/not/here"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleInitLoad_LoadsAndCaches(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		datastore.TableOrders:   "pedido,articulo,cantidad,fecha_entrega\nP-1,ART-A,100,2026-04-01\n",
		datastore.TableRouting:  "articulo,centro,fase,t_prep_horas,prod_horaria\nART-A,910,10,0.5,60\n",
		datastore.TableStock:    "articulo,stock\nART-A,20\n",
		datastore.TableWip:      "articulo,cantidad_total\nART-A,10\n",
		datastore.TableLotRules: "articulo,lote_produccion,mp\nART-A,50,MP-STEEL\n",
		datastore.TableCapacity: "centro,capacidad_horas\n910,160\n",
	}
	for table, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, table+".csv"), []byte(content), 0o644))
	}

	s := testServer(t, nil)
	body := `{"path": ` + jsonString(dir) + `}`

	rec := doRequest(t, s, http.MethodPost, "/init-load", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var first initLoadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.Equal(t, "ok", first.Status)
	assert.Equal(t, 1, first.Stats.TableRows[datastore.TableOrders])

	// Unchanged sources: the second call reports the cached snapshot.
	rec = doRequest(t, s, http.MethodPost, "/init-load", body)
	require.Equal(t, http.StatusOK, rec.Code)
	var second initLoadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, "cached", second.Status)

	// Forced reload bypasses the cache.
	rec = doRequest(t, s, http.MethodPost, "/init-load",
		`{"path": `+jsonString(dir)+`, "force_reload": true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var forced initLoadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &forced))
	assert.Equal(t, "ok", forced.Status)
}

func TestDataEndpoints(t *testing.T) {
	s := testServer(t, testSnapshot())

	rec := doRequest(t, s, http.MethodGet, "/data/secuencia", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	rec = doRequest(t, s, http.MethodGet, "/data/kpis", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "saturacion_promedio")

	rec = doRequest(t, s, http.MethodGet, "/data/cuellos-botella", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/data/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"loaded":true`)
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
