// Public domain.

package catalog

import (
	"fmt"

	"github.com/parquet-go/parquet-go"
)

// parquetRecord is the Parquet row layout.  Dist is null for points
// without distance.
type parquetRecord struct {
	ID   string   `parquet:"id"`
	RA   float64  `parquet:"ra"`
	Dec  float64  `parquet:"dec"`
	Dist *float64 `parquet:"dist"`
}

func readParquet(path string, b *builder) error {
	rows, err := parquet.ReadFile[parquetRecord](path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for i, row := range rows {
		r := record{
			id:       row.ID,
			ra:       row.RA,
			dec:      row.Dec,
			location: fmt.Sprintf("%s: row %d", path, i),
		}
		if row.Dist != nil {
			r.dist, r.hasDist = *row.Dist, true
		}
		if err := b.add(r); err != nil {
			return err
		}
	}
	return nil
}

func writeParquet(path string, rs []record) error {
	rows := make([]parquetRecord, len(rs))
	for i, r := range rs {
		rows[i] = parquetRecord{ID: r.id, RA: r.ra, Dec: r.dec}
		if r.hasDist {
			d := r.dist
			rows[i].Dist = &d
		}
	}
	return parquet.WriteFile(path, rows, parquet.Compression(&parquet.Zstd))
}
