// Package labels exports asset-tag label sheets as CSV for the label printer
// software. Shift-JIS output matches what the Windows printer tools expect.
package labels

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"ITAM-backend/internal/asset_mgmt/assets"
	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/ref"
)

type Encoding string

const (
	EncodingUTF8     Encoding = "utf-8"
	EncodingShiftJIS Encoding = "shift_jis"
)

var Encodings = []Encoding{EncodingUTF8, EncodingShiftJIS}

// Lookup is satisfied by *assets.Service.
type Lookup interface {
	Get(ctx context.Context, id string) (*assets.Asset, error)
}

// Row is one printed label.
type Row struct {
	Tag      string
	Kind     string
	Serial   string
	Location string
}

func rowFor(a *assets.Asset) Row {
	r := Row{
		Tag:    a.SerialNumber,
		Kind:   a.Category + " / " + a.Model,
		Serial: a.SerialNumber,
	}
	if a.AssetTag != nil {
		r.Tag = *a.AssetTag
	}
	if a.LocationName != nil {
		r.Location = *a.LocationName
	}
	return r
}

// Sheet is the rendered CSV plus the ids that could not be resolved.
type Sheet struct {
	Data    []byte
	Rows    int
	Skipped []string
}

type Service struct{ lookup Lookup }

func NewService(lookup Lookup) *Service { return &Service{lookup: lookup} }

// Build resolves every id and renders the found assets in request order.
// Unknown or malformed ids are skipped and reported; nothing found is an error.
func (s *Service) Build(ctx context.Context, ids []string, enc Encoding) (*Sheet, error) {
	if len(ids) == 0 {
		return nil, apperr.Invalid("asset_ids must not be empty")
	}
	sheet := &Sheet{Skipped: []string{}}
	rows := make([]Row, 0, len(ids))
	for _, raw := range ids {
		r, err := ref.Parse(raw)
		if err != nil {
			sheet.Skipped = append(sheet.Skipped, raw)
			continue
		}
		a, err := s.lookup.Get(ctx, r.ID)
		if apperr.Is(err, apperr.CodeNotFound) {
			sheet.Skipped = append(sheet.Skipped, r.ID)
			continue
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rowFor(a))
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("none of the requested assets exist")
	}

	data, err := WriteCSV(rows, enc)
	if err != nil {
		return nil, apperr.Internal("label csv rendering failed", err)
	}
	sheet.Data, sheet.Rows = data, len(rows)
	return sheet, nil
}

// WriteCSV renders rows without a header line. Characters Shift-JIS cannot
// represent are replaced instead of failing the whole sheet.
func WriteCSV(rows []Row, enc Encoding) ([]byte, error) {
	var b bytes.Buffer
	var out io.Writer = &b
	var tw *transform.Writer
	switch enc {
	case "", EncodingUTF8:
	case EncodingShiftJIS:
		// Windowsの「ANSI（CP932）」相当
		tw = transform.NewWriter(&b, encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder()))
		out = tw
	default:
		return nil, apperr.Invalidf("unsupported encoding %q", enc)
	}

	w := csv.NewWriter(out)
	for _, r := range rows {
		if err := w.Write([]string{r.Tag, r.Kind, r.Serial, r.Location}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	if tw != nil {
		if err := tw.Close(); err != nil {
			return nil, err
		}
	}
	return b.Bytes(), nil
}

func contentType(enc Encoding) string {
	if enc == EncodingShiftJIS {
		return "text/csv; charset=Shift_JIS"
	}
	return "text/csv; charset=utf-8"
}

func skippedHeader(ids []string) string { return strings.Join(ids, ",") }
