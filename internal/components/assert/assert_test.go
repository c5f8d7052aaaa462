package assert

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNotNil(t *testing.T) {
	var db *sql.DB
	var m map[string]int

	require.Panics(t, func() { NotNil(nil) })
	require.Panics(t, func() { NotNil(db) })
	require.Panics(t, func() { NotNil(m) })
	require.NotPanics(t, func() { NotNil(&sql.DB{}) })
	require.NotPanics(t, func() { NotNil(0) })
}

func TestPositive(t *testing.T) {
	require.Panics(t, func() { Positive(0, "count") })
	require.Panics(t, func() { Positive(-time.Second, "period") })
	require.NotPanics(t, func() { Positive(time.Millisecond, "period") })
}
