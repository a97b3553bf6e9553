package dataset

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullCSV = `customer_id,Recency,Frequency,Monetary,RFM_Score,Segment,Predicted_Purchases_6M,Predicted_Avg_Monetary,CLV_6M
C1,10,5,500.5,555,Gold,3.2,120.1,420.5
C2,200,2,80,322,Gold,NA,,
C3,400,1,15,111,Silver,0.4,30,12
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCSVLoader_Load(t *testing.T) {
	p := writeFile(t, "rfm.csv", fullCSV)

	tbl, err := CSVLoader{Path: p}.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("rows = %d, want 3", tbl.Len())
	}

	c1 := tbl.Row(0)
	if c1.CustomerID != "C1" || c1.Recency != 10 || c1.Frequency != 5 || c1.Segment != "Gold" || c1.RFMScore != "555" {
		t.Fatalf("unexpected first row: %+v", c1)
	}
	if c1.CLV6M == nil || *c1.CLV6M != 420.5 {
		t.Fatalf("CLV_6M = %v, want 420.5", c1.CLV6M)
	}

	c2 := tbl.Row(1)
	if c2.CLV6M != nil || c2.PredictedPurchases6M != nil || c2.PredictedAvgMonetary != nil {
		t.Fatalf("null predictions should be nil: %+v", c2)
	}
}

func TestParseCSV_OptionalColumnsAbsent(t *testing.T) {
	body := "customer_id,Recency,Frequency,Monetary,RFM_Score,Segment\nC1,10,5,500,555,Gold\n"
	rows, err := ParseCSV(strings.NewReader(body), ',')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].CLV6M != nil || rows[0].HasCLV() {
		t.Fatalf("CLV should be absent: %+v", rows[0])
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	body := "customer_id,Recency,Frequency,Monetary,RFM_Score,Segment,CLV_6M\n"
	rows, err := ParseCSV(strings.NewReader(body), ',')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(rows))
	}
}

func TestParseCSV_Semicolon(t *testing.T) {
	body := strings.ReplaceAll(fullCSV, ",", ";")
	rows, err := ParseCSV(strings.NewReader(body), ';')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 || rows[2].Segment != "Silver" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestParseCSV_ByteOrderMark(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader("\ufeff"+fullCSV), ',')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 || rows[0].CustomerID != "C1" {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	rows, err = ParseCSV(strings.NewReader("\ufeffcustomer_id,Recency,Frequency,Monetary,RFM_Score,Segment\n"), ',')
	if err != nil || len(rows) != 0 {
		t.Fatalf("header only with BOM: rows=%v err=%v", rows, err)
	}
}

func TestParseCSV_TrimsNumericCells(t *testing.T) {
	body := "customer_id,Recency,Frequency,Monetary,RFM_Score,Segment,CLV_6M\nC1, 10,2 ,5.5,111,Gold, \n"
	rows, err := ParseCSV(strings.NewReader(body), ',')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := rows[0]
	if r.Recency != 10 || r.Frequency != 2 || r.Monetary != 5.5 || r.CLV6M != nil {
		t.Fatalf("unexpected row: %+v", r)
	}
}

func TestParseCSV_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", "empty file"},
		{"missing segment", "customer_id,Recency,Frequency,Monetary,RFM_Score\nC1,1,1,1,111\n", `missing column "Segment"`},
		{"duplicate column", "customer_id,Recency,Frequency,Monetary,RFM_Score,Segment,Segment\nC1,1,1,1,111,Gold,Gold\n", "duplicate column"},
		{"fractional frequency", "customer_id,Recency,Frequency,Monetary,RFM_Score,Segment\nC1,1,1.5,1,111,Gold\n", "Frequency must be an integer"},
		{"bad clv cell", "customer_id,Recency,Frequency,Monetary,RFM_Score,Segment,CLV_6M\nC1,1,1,1,111,Gold,100\nC2,1,1,1,111,Gold,12O.5\n", `row 2: invalid CLV_6M "12O.5"`},
		{"bad predicted purchases", "customer_id,Recency,Frequency,Monetary,RFM_Score,Segment,Predicted_Purchases_6M\nC1,1,1,1,111,Gold,abc\n", `row 1: invalid Predicted_Purchases_6M "abc"`},
		{"infinite clv", "customer_id,Recency,Frequency,Monetary,RFM_Score,Segment,CLV_6M\nC1,1,1,1,111,Gold,inf\n", `row 1: invalid CLV_6M "inf"`},
		{"bad recency", "customer_id,Recency,Frequency,Monetary,RFM_Score,Segment\nC1,ten,1,1,111,Gold\n", `row 1: invalid Recency "ten"`},
		{"missing monetary", "customer_id,Recency,Frequency,Monetary,RFM_Score,Segment\nC1,1,1,NA,111,Gold\n", "row 1: missing Monetary"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tc.body), ',')
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestCSVLoader_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := CSVLoader{Path: filepath.Join(t.TempDir(), "nope.csv")}.Load(context.Background())
		var dle *DataLoadError
		if !errors.As(err, &dle) || dle.Op != "read" {
			t.Fatalf("want read DataLoadError, got %v", err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("want fs.ErrNotExist in chain, got %v", err)
		}
	})

	t.Run("duplicate ids", func(t *testing.T) {
		body := "customer_id,Recency,Frequency,Monetary,RFM_Score,Segment\nC1,1,1,1,111,Gold\nC1,2,2,2,222,Gold\n"
		_, err := CSVLoader{Path: writeFile(t, "dup.csv", body)}.Load(context.Background())
		var dle *DataLoadError
		if !errors.As(err, &dle) || dle.Op != "validate" {
			t.Fatalf("want validate DataLoadError, got %v", err)
		}
	})

	t.Run("bad prediction cell", func(t *testing.T) {
		body := "customer_id,Recency,Frequency,Monetary,RFM_Score,Segment,CLV_6M\nC1,1,1,1,111,Gold,100\nC2,1,1,1,111,Gold,12O.5\n"
		_, err := CSVLoader{Path: writeFile(t, "clv.csv", body)}.Load(context.Background())
		var dle *DataLoadError
		if !errors.As(err, &dle) || dle.Op != "parse" {
			t.Fatalf("want parse DataLoadError, got %v", err)
		}
	})

	t.Run("missing column", func(t *testing.T) {
		body := "customer_id,Recency\nC1,1\n"
		_, err := CSVLoader{Path: writeFile(t, "cols.csv", body)}.Load(context.Background())
		var dle *DataLoadError
		if !errors.As(err, &dle) || dle.Op != "parse" {
			t.Fatalf("want parse DataLoadError, got %v", err)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := CSVLoader{Path: "unused.csv"}.Load(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
	})
}
