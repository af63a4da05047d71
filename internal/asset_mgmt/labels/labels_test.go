package labels

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"ITAM-backend/internal/asset_mgmt/assets"
	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/auth"
)

type fakeLookup map[string]*assets.Asset

func (f fakeLookup) Get(_ context.Context, id string) (*assets.Asset, error) {
	a, ok := f[id]
	if !ok {
		return nil, apperr.NotFoundf("asset %s not found", id)
	}
	return a, nil
}

func strp(s string) *string { return &s }

func fixture() (fakeLookup, string, string) {
	a, b := ulid.Make().String(), ulid.Make().String()
	return fakeLookup{
		a: {ID: a, AssetTag: strp("IT-0001"), Category: "laptop", Model: "ThinkPad X1", SerialNumber: "PF-1", LocationName: strp("本社 3F")},
		b: {ID: b, Category: "monitor", Model: "U2723QE", SerialNumber: "CN-9"},
	}, a, b
}

func TestBuildSkipsUnknown(t *testing.T) {
	lookup, a, b := fixture()
	svc := NewService(lookup)
	missing := ulid.Make().String()

	sheet, err := svc.Build(context.Background(), []string{a, missing, "N/A", b}, EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, 2, sheet.Rows)
	assert.Equal(t, []string{missing, "N/A"}, sheet.Skipped)

	records, err := csv.NewReader(bytes.NewReader(sheet.Data)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"IT-0001", "laptop / ThinkPad X1", "PF-1", "本社 3F"},
		{"CN-9", "monitor / U2723QE", "CN-9", ""},
	}, records)

	_, err = svc.Build(context.Background(), []string{missing}, EncodingUTF8)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	_, err = svc.Build(context.Background(), nil, EncodingUTF8)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))
}

func TestWriteCSVShiftJIS(t *testing.T) {
	data, err := WriteCSV([]Row{{Tag: "IT-1", Kind: "ノートPC / X1", Serial: "S1", Location: "東京"}}, EncodingShiftJIS)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "東京", "output must not be UTF-8")

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), japanese.ShiftJIS.NewDecoder()))
	require.NoError(t, err)
	assert.Equal(t, "IT-1,ノートPC / X1,S1,東京\n", string(decoded))

	// 変換できない文字は置換される
	_, err = WriteCSV([]Row{{Tag: "😀"}}, EncodingShiftJIS)
	assert.NoError(t, err)

	_, err = WriteCSV(nil, "latin1")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))
}

func TestExportLabelsHandler(t *testing.T) {
	lookup, a, _ := fixture()
	gin.SetMode(gin.TestMode)
	newRouter := func(role string) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) { c.Set(auth.CtxRoleKey, role); c.Next() })
		RegisterRoutes(r, NewService(lookup))
		return r
	}
	missing := ulid.Make().String()
	post := func(r *gin.Engine, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/assets/labels", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post(newRouter(auth.RoleAdmin), `{"asset_ids":["`+a+`","`+missing+`"],"encoding":"shift_jis"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, missing, w.Header().Get("X-Skipped-Assets"))
	assert.Equal(t, "text/csv; charset=Shift_JIS", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "labels.csv")

	assert.Equal(t, http.StatusBadRequest, post(newRouter(auth.RoleAdmin), `{"asset_ids":[]}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(newRouter(auth.RoleAdmin), `{"asset_ids":["`+a+`"],"encoding":"ebcdic"}`).Code)
	assert.Equal(t, http.StatusForbidden, post(newRouter(auth.RoleUser), `{"asset_ids":["`+a+`"]}`).Code)
}
