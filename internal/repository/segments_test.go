package repository

import (
	"errors"
	"strings"
	"testing"

	"github.com/jmehdipour/rfm-dashboard/internal/db"
)

func TestUpsertQueryPerKind(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{db.KindMySQL, "ON DUPLICATE KEY UPDATE"},
		{db.KindPostgres, "ON CONFLICT (customer_id) DO UPDATE"},
		{db.KindClickHouse, "INSERT INTO customer_segments"},
	}
	for _, tt := range tests {
		r := &SegmentsRepositoryImpl{kind: tt.kind}
		q, err := r.upsertQuery()
		if err != nil {
			t.Fatalf("%s: %v", tt.kind, err)
		}
		if !strings.Contains(q, tt.want) {
			t.Errorf("%s: query missing %q:\n%s", tt.kind, tt.want, q)
		}
		if tt.kind == db.KindClickHouse && strings.Contains(q, "ON ") {
			t.Errorf("clickhouse query must be a plain insert:\n%s", q)
		}
	}
}

func TestUpsertQueryUnknownKind(t *testing.T) {
	r := &SegmentsRepositoryImpl{kind: "oracle"}
	if _, err := r.upsertQuery(); !errors.Is(err, db.ErrUnknownKind) {
		t.Fatalf("err = %v, want ErrUnknownKind", err)
	}
}
