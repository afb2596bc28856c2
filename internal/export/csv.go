package export

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/price-estimator/internal/geodvf"
)

// WriteCSV writes the header and every row, comma separated.
func WriteCSV(w io.Writer, t *geodvf.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "export: write csv row %d", i)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}
