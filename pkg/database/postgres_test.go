package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/cloud-classroom/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "classroom", Password: "pw", Name: "classroom", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=classroom password=pw dbname=classroom sslmode=disable", dsn)
}
