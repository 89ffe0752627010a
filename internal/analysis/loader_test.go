package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `transaction_id,date,product_name,category,quantity,unit_price,region,salesperson
T001,2024-01-15,Laptop,Electronics,2,1200.00,North,Alice
T002,2024-01-16,Desk,Furniture,1,450.50,South,Bob
T003,2024-01-17,Mouse,Electronics,5,25.00,North,Alice
T004,2024-02-01,Chair,Furniture,4,150.00,East,Carol
`

func TestLoadReader(t *testing.T) {
	t.Run("parses all records", func(t *testing.T) {
		records, err := LoadReader(strings.NewReader(sampleCSV))
		require.NoError(t, err)
		require.Len(t, records, 4)

		first := records[0]
		assert.Equal(t, "T001", first.TransactionID)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), first.Date)
		assert.Equal(t, "Laptop", first.Product)
		assert.Equal(t, "Electronics", first.Category)
		assert.Equal(t, 2, first.Quantity)
		assert.Equal(t, 1200.00, first.UnitPrice)
		assert.Equal(t, "North", first.Region)
		assert.Equal(t, "Alice", first.Salesperson)
		assert.Equal(t, 2400.00, first.Total())
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := LoadReader(strings.NewReader("transaction_id,date\nT001,2024-01-15\n"))
		require.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("bad quantity reports row", func(t *testing.T) {
		bad := strings.Replace(sampleCSV, "T002,2024-01-16,Desk,Furniture,1", "T002,2024-01-16,Desk,Furniture,one", 1)
		_, err := LoadReader(strings.NewReader(bad))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 3")
	})

	t.Run("bad date", func(t *testing.T) {
		bad := strings.Replace(sampleCSV, "2024-01-15", "15/01/2024", 1)
		_, err := LoadReader(strings.NewReader(bad))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad date")
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	records, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, records, 4)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestRecordSource(t *testing.T) {
	t.Run("streams records in order", func(t *testing.T) {
		src, err := StreamReader(strings.NewReader(sampleCSV))
		require.NoError(t, err)

		var ids []string
		for {
			rec, ok := src.Next()
			if !ok {
				break
			}
			ids = append(ids, rec.TransactionID)
		}
		require.NoError(t, src.Err())
		assert.Equal(t, []string{"T001", "T002", "T003", "T004"}, ids)

		// Exhausted source stays exhausted.
		_, ok := src.Next()
		assert.False(t, ok)
	})

	t.Run("surfaces parse fault through Err", func(t *testing.T) {
		bad := strings.Replace(sampleCSV, "5,25.00", "5,cheap", 1)
		src, err := StreamReader(strings.NewReader(bad))
		require.NoError(t, err)

		var count int
		for {
			_, ok := src.Next()
			if !ok {
				break
			}
			count++
		}
		assert.Equal(t, 2, count)
		require.Error(t, src.Err())
		assert.Contains(t, src.Err().Error(), "unit_price")
	})

	t.Run("closes the file on exhaustion", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sales.csv")
		require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

		src, err := StreamFile(path)
		require.NoError(t, err)
		for {
			if _, ok := src.Next(); !ok {
				break
			}
		}
		require.NoError(t, src.Err())
		assert.Nil(t, src.closer)
	})
}
