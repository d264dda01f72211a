package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionParams_DSN(t *testing.T) {
	p := ConnectionParams{Host: "db", User: "monitor", Password: "secret", DBName: "alerts"}
	assert.Equal(t, "host=db port=5432 user=monitor password=secret dbname=alerts sslmode=disable", p.DSN())

	p.Port = "6543"
	p.SSLMode = "require"
	assert.Equal(t, "host=db port=6543 user=monitor password=secret dbname=alerts sslmode=require", p.DSN())
}

func TestConnectionParams_Configured(t *testing.T) {
	assert.False(t, ConnectionParams{}.Configured())
	assert.False(t, ConnectionParams{Host: "db"}.Configured())
	assert.True(t, ConnectionParams{Host: "db", DBName: "alerts"}.Configured())
}
