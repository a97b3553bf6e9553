package dashboard

import (
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/jmehdipour/rfm-dashboard/internal/model"
)

// WriteCSV writes rows as CSV with the dataset header; null predictions are empty cells.
func WriteCSV(w io.Writer, rows []model.CustomerRecord) error {
	data := Table(rows)
	cols := make([]series.Series, len(data.Columns))
	for j, name := range data.Columns {
		vals := make([]string, len(data.Rows))
		for i, row := range data.Rows {
			vals[i] = row[j]
		}
		cols[j] = series.New(vals, series.String, name)
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return df.Err
	}
	return df.WriteCSV(w)
}
