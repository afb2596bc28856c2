package export

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/price-estimator/internal/geodvf"
)

// FeatureCollection converts rows with coordinates into point features.
// Properties carry every other non-empty column, with the price as a number.
// Rows missing a longitude or latitude are skipped.
func FeatureCollection(t *geodvf.Table) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}
	for i := range t.Rows {
		lon, okLon := t.Float(i, geodvf.ColumnLongitude)
		lat, okLat := t.Float(i, geodvf.ColumnLatitude)
		if !okLon || !okLat {
			continue
		}

		props := make(map[string]any, len(t.Columns))
		for _, c := range t.Columns {
			if c == geodvf.ColumnLongitude || c == geodvf.ColumnLatitude {
				continue
			}
			v := t.Value(i, c)
			if v == "" {
				continue
			}
			if c == geodvf.ColumnPrice {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					props[c] = n
					continue
				}
			}
			props[c] = v
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         t.Value(i, geodvf.ColumnMutationID),
			Geometry:   geom.NewPointFlat(geom.XY, []float64{lon, lat}),
			Properties: props,
		})
	}
	return fc
}

// WriteGeoJSON writes t as a GeoJSON FeatureCollection.
func WriteGeoJSON(w io.Writer, t *geodvf.Table) error {
	data, err := json.Marshal(FeatureCollection(t))
	if err != nil {
		return eris.Wrap(err, "export: encode geojson")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "export: write geojson")
	}
	return nil
}
